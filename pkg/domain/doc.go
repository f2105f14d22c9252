// Package domain holds the core types shared by every casegrid component:
// cases, timings, run status and the error taxonomy.
//
// The driver never inspects the values flowing through a solver; the only
// contract is that a result renders as text.
package domain
