package aggregates

import "strings"

// AuditUserDeletePolicy decides what happens to audit rows of a deleted user.
type AuditUserDeletePolicy string

const (
	AuditNullify  AuditUserDeletePolicy = "nullify"
	AuditRetain   AuditUserDeletePolicy = "retain"
	AuditCascade  AuditUserDeletePolicy = "cascade"
	AuditRestrict AuditUserDeletePolicy = "restrict"
)

func ParseAuditUserDeletePolicy(s string) (AuditUserDeletePolicy, bool) {
	p := AuditUserDeletePolicy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case AuditNullify, AuditRetain, AuditCascade, AuditRestrict:
		return p, true
	case "":
		return AuditNullify, true
	}
	return p, false
}

// Policy groups the write-time decisions the schema leaves open.
type Policy struct {
	AuditOnUserDelete    AuditUserDeletePolicy
	EnforceRanges        bool
	ChargeCreditOnUpload bool
}

func DefaultPolicy() Policy {
	return Policy{
		AuditOnUserDelete: AuditNullify,
		EnforceRanges:     true,
	}
}
