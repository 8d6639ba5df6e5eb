// Package wizard implements the five-step draft builder that collects
// a will's personal, asset, beneficiary, and instruction data and
// submits the assembled draft for document generation.
//
// A Session owns the current step, the accumulated draft, and the
// working row sets for dynamic collections. Field values are read
// through a FormSource so the core is independent of any rendering
// surface, and persistence goes through a BackendService.
package wizard
