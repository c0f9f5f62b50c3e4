package data

import (
	_ "embed"
)

// SeedOrganization is the demo hierarchy and user directory loaded when no
// state document exists.
//
//go:embed seed/organization.json
var SeedOrganization []byte
