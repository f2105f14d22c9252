// Package ports defines the interfaces between the driver core and the
// capabilities supplied from outside: the user's solver pair and optional
// driven adapters such as result caches.
//
// Contract tests for adapter interfaces live here too, so every
// implementation can prove the same behavior.
package ports
