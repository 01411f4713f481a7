// Package services defines the error taxonomy and context plumbing shared by
// every component that talks to the repository service or the curation tree.
package services
