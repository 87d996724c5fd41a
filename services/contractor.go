package services

import "strings"

// ContractorIdentity identifies who submitted a quote: either an internal
// contractor record or an external name/identifier pair captured from a
// tokenized link. Exactly one of the two is set; the constructors enforce it.
type ContractorIdentity struct {
	internalID         string
	externalName       string
	externalIdentifier string
}

// InternalContractor identifies a quote as coming from a registered
// contractor record.
func InternalContractor(contractorID string) (ContractorIdentity, error) {
	if strings.TrimSpace(contractorID) == "" {
		return ContractorIdentity{}, ValidationErrors{"contractor": "contractor is required"}
	}
	return ContractorIdentity{internalID: contractorID}, nil
}

// ExternalContractor identifies a quote as coming from an external
// contractor. Both name and identifier are required.
func ExternalContractor(name, identifier string) (ContractorIdentity, error) {
	name = strings.TrimSpace(name)
	identifier = strings.TrimSpace(identifier)

	errs := ValidationErrors{}
	if name == "" {
		errs["externalName"] = "name is required"
	}
	if identifier == "" {
		errs["externalIdentifier"] = "identifier is required"
	}
	if len(errs) > 0 {
		return ContractorIdentity{}, errs
	}
	return ContractorIdentity{externalName: name, externalIdentifier: identifier}, nil
}

// IsExternal reports whether the identity is an external contractor.
func (c ContractorIdentity) IsExternal() bool { return c.internalID == "" }

// InternalID returns the contractor record id, empty for external identities.
func (c ContractorIdentity) InternalID() string { return c.internalID }

// External returns the external name and identifier, empty for internal ones.
func (c ContractorIdentity) External() (name, identifier string) {
	return c.externalName, c.externalIdentifier
}

// Matches reports whether a stored quote row belongs to the same contractor
// identity. Used to reject duplicate submissions for the same item.
func (c ContractorIdentity) Matches(internalID, externalIdentifier string) bool {
	if c.IsExternal() {
		return externalIdentifier != "" && externalIdentifier == c.externalIdentifier
	}
	return internalID != "" && internalID == c.internalID
}
