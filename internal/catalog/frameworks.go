package catalog

// FrameworkInfo describes a compliance framework referenced by catalog
// questions. Display-only; used by report rendering.
type FrameworkInfo struct {
	Key         string
	Name        string
	Publisher   string
	Description string
}

// GetFrameworkInfo returns the known framework descriptions keyed by the
// prefix used in control references.
func GetFrameworkInfo() map[string]FrameworkInfo {
	return map[string]FrameworkInfo{
		"NIST IR 8374": {
			Key:         "NIST IR 8374",
			Name:        "Ransomware Risk Management Profile",
			Publisher:   "NIST",
			Description: "Cybersecurity Framework profile for managing ransomware risk.",
		},
		"CSF": {
			Key:         "CSF",
			Name:        "Cybersecurity Framework",
			Publisher:   "NIST",
			Description: "Core functions: Identify, Protect, Detect, Respond, Recover.",
		},
		"NIST SP 800-161": {
			Key:         "NIST SP 800-161",
			Name:        "Supply Chain Risk Management Practices",
			Publisher:   "NIST",
			Description: "Guidance for managing cybersecurity risk in supply chains.",
		},
		"NIST SP 800-207": {
			Key:         "NIST SP 800-207",
			Name:        "Zero Trust Architecture",
			Publisher:   "NIST",
			Description: "Tenets and deployment models for zero trust architectures.",
		},
		"CISA CPG": {
			Key:         "CISA CPG",
			Name:        "Cross-Sector Cybersecurity Performance Goals",
			Publisher:   "CISA",
			Description: "Baseline practices for critical infrastructure operators.",
		},
	}
}
