// Package portal defines the common structs and errors shared by portal
// scraper implementations.
package portal

type PortalCode string

const (
	PortalMax PortalCode = "MAX"
)
