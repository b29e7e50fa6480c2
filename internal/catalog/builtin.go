package catalog

// Builtin returns the hand-authored catalogs shipped with the product. Each
// slice entry is a wholly separate assessment type; section and question
// order is significant.
func Builtin() []*Catalog {
	return []*Catalog{
		ransomwareCatalog(),
		supplyChainCatalog(),
		zeroTrustCatalog(),
		segmentationCatalog(),
	}
}

func ransomwareCatalog() *Catalog {
	return &Catalog{
		Type:      "ransomware",
		Name:      "Ransomware Readiness Assessment",
		Framework: "NIST IR 8374 / CSF",
		Sections: []Section{
			{
				Title:         "Risk Identification & Asset Management",
				Description:   "Inventory of systems, data, and the ransomware attack surface.",
				Complexity:    ComplexityLow,
				EstimatedTime: "10-15 minutes",
				Questions: []Question{
					{
						ID:         "RM-1",
						Prompt:     "Do you maintain an up-to-date inventory of all hardware and software assets?",
						ControlRef: "NIST IR 8374 2.1 | CSF ID.AM-1",
						Guidance:   "An asset inventory is the baseline for knowing what can be encrypted or exfiltrated.",
					},
					{
						ID:         "RM-2",
						Prompt:     "Have you identified and classified data that would cause the most harm if encrypted or leaked?",
						ControlRef: "NIST IR 8374 2.1 | CSF ID.RA-1",
						Guidance:   "Classification drives backup priority and recovery order.",
					},
					{
						ID:         "RM-3",
						Prompt:     "Do you perform periodic risk assessments that explicitly consider ransomware scenarios?",
						ControlRef: "NIST IR 8374 2.2 | CSF ID.RA-5",
						Guidance:   "Scenario-based assessments surface gaps generic reviews miss.",
					},
					{
						ID:         "RM-4",
						Prompt:     "Are internet-facing services and remote access points inventoried and reviewed for exposure?",
						ControlRef: "NIST IR 8374 2.3 | CSF ID.AM-4",
						Guidance:   "Exposed RDP and VPN endpoints remain the most common ransomware entry vector.",
					},
				},
			},
			{
				Title:         "Protective Controls",
				Description:   "Hardening, access control, and malware defenses that block initial compromise.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "15-20 minutes",
				Questions: []Question{
					{
						ID:         "PC-1",
						Prompt:     "Is multi-factor authentication enforced for all remote access and administrative accounts?",
						ControlRef: "NIST IR 8374 3.1 | CSF PR.AC-7",
						Guidance:   "MFA defeats the credential theft that precedes most ransomware deployments.",
					},
					{
						ID:         "PC-2",
						Prompt:     "Are user privileges restricted to the minimum required, with admin rights tightly controlled?",
						ControlRef: "NIST IR 8374 3.2 | CSF PR.AC-4",
						Guidance:   "Least privilege limits how far an intrusion can spread.",
					},
					{
						ID:         "PC-3",
						Prompt:     "Is endpoint protection with anti-ransomware behavioral detection deployed on all endpoints?",
						ControlRef: "NIST IR 8374 3.3 | CSF DE.CM-4",
						Guidance:   "Signature-only antivirus misses modern ransomware loaders.",
					},
					{
						ID:         "PC-4",
						Prompt:     "Are operating systems and applications patched on a defined schedule, with critical patches expedited?",
						ControlRef: "NIST IR 8374 3.4 | CSF PR.IP-12",
						Guidance:   "Known-exploited vulnerabilities should be patched ahead of routine updates.",
					},
					{
						ID:         "PC-5",
						Prompt:     "Is email filtering configured to block executable attachments and flag external senders?",
						ControlRef: "NIST IR 8374 3.5 | CSF PR.DS-5",
						Guidance:   "Phishing remains the dominant ransomware delivery channel.",
					},
					{
						ID:         "PC-6",
						Prompt:     "Are macros and script execution disabled or restricted by policy on user workstations?",
						ControlRef: "NIST IR 8374 3.6 | CSF PR.IP-1",
						Guidance:   "Office macros and LOLBins are standard footholds for ransomware operators.",
					},
				},
			},
			{
				Title:         "Backup & Recovery",
				Description:   "Backup coverage, isolation, and tested restoration.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10-15 minutes",
				Questions: []Question{
					{
						ID:         "BR-1",
						Prompt:     "Are backups of critical data taken on a schedule that meets your recovery point objectives?",
						ControlRef: "NIST IR 8374 4.1 | CSF PR.IP-4",
						Guidance:   "Backup frequency should be driven by how much data loss is tolerable.",
					},
					{
						ID:         "BR-2",
						Prompt:     "Is at least one backup copy kept offline or otherwise immutable and inaccessible from production?",
						ControlRef: "NIST IR 8374 4.2 | CSF PR.IP-4",
						Guidance:   "Ransomware operators target reachable backups before detonating.",
					},
					{
						ID:         "BR-3",
						Prompt:     "Do you test full restoration of critical systems from backup at least annually?",
						ControlRef: "NIST IR 8374 4.3 | CSF PR.IP-10",
						Guidance:   "Untested backups fail at the worst possible time.",
					},
					{
						ID:         "BR-4",
						Prompt:     "Are backup credentials separated from domain administration credentials?",
						ControlRef: "NIST IR 8374 4.4 | CSF PR.AC-4",
						Guidance:   "A compromised domain admin must not equal compromised backups.",
					},
				},
			},
			{
				Title:         "Detection & Monitoring",
				Description:   "Visibility into intrusion activity before encryption begins.",
				Complexity:    ComplexityHigh,
				EstimatedTime: "15-20 minutes",
				Questions: []Question{
					{
						ID:         "DM-1",
						Prompt:     "Are security logs from endpoints, servers, and network devices centrally collected?",
						ControlRef: "NIST IR 8374 5.1 | CSF DE.AE-3",
						Guidance:   "Dwell time before encryption is the detection window.",
					},
					{
						ID:         "DM-2",
						Prompt:     "Do you have alerting for mass file modification, shadow-copy deletion, and other ransomware precursors?",
						ControlRef: "NIST IR 8374 5.2 | CSF DE.CM-1",
						Guidance:   "vssadmin delete shadows is a near-universal tell.",
					},
					{
						ID:         "DM-3",
						Prompt:     "Is anomalous authentication activity (impossible travel, off-hours admin logons) monitored?",
						ControlRef: "NIST IR 8374 5.3 | CSF DE.CM-3",
						Guidance:   "Credential misuse precedes lateral movement.",
					},
					{
						ID:         "DM-4",
						Prompt:     "Are alerts triaged by defined personnel within a defined response time?",
						ControlRef: "NIST IR 8374 5.4 | CSF DE.DP-1",
						Guidance:   "Unowned alerts are unseen alerts.",
					},
				},
			},
			{
				Title:         "Incident Response",
				Description:   "Plans, roles, and decisions for an active ransomware event.",
				Complexity:    ComplexityHigh,
				EstimatedTime: "15-20 minutes",
				Questions: []Question{
					{
						ID:         "IR-1",
						Prompt:     "Do you have a written incident response plan that specifically addresses ransomware?",
						ControlRef: "NIST IR 8374 6.1 | CSF RS.RP-1",
						Guidance:   "Generic IR plans stall on ransomware-specific decisions like payment posture.",
					},
					{
						ID:         "IR-2",
						Prompt:     "Are roles, escalation paths, and out-of-band communication channels defined for a ransomware event?",
						ControlRef: "NIST IR 8374 6.2 | CSF RS.CO-1",
						Guidance:   "Email may be unavailable or monitored by the attacker during an incident.",
					},
					{
						ID:         "IR-3",
						Prompt:     "Has the response plan been exercised through a tabletop or live drill in the last year?",
						ControlRef: "NIST IR 8374 6.3 | CSF PR.IP-10",
						Guidance:   "Exercises expose stale contact lists and unclear authority.",
					},
					{
						ID:         "IR-4",
						Prompt:     "Do you know your legal and regulatory notification obligations following a ransomware incident?",
						ControlRef: "NIST IR 8374 6.4 | CSF RS.CO-4",
						Guidance:   "Breach notification clocks often start at discovery, not containment.",
					},
				},
			},
			{
				Title:         "Supply Chain & Third Parties",
				Description:   "Exposure inherited from vendors, MSPs, and software providers.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "SC-1",
						Prompt:     "Is third-party remote access to your environment inventoried, time-limited, and monitored?",
						ControlRef: "NIST IR 8374 7.1 | CSF ID.SC-2",
						Guidance:   "MSP tooling has been the pivot in several large ransomware campaigns.",
					},
					{
						ID:         "SC-2",
						Prompt:     "Do contracts with critical vendors require security controls and incident notification?",
						ControlRef: "NIST IR 8374 7.2 | CSF ID.SC-3",
						Guidance:   "You cannot respond to a vendor compromise you are never told about.",
					},
					{
						ID:         "SC-3",
						Prompt:     "Are software updates and new tools validated before deployment into production?",
						ControlRef: "NIST IR 8374 7.3 | CSF PR.DS-6",
						Guidance:   "Supply-chain delivered ransomware rides trusted update channels.",
					},
				},
			},
			{
				Title:         "Training & Awareness",
				Description:   "The human layer of ransomware defense.",
				Complexity:    ComplexityLow,
				EstimatedTime: "5-10 minutes",
				Questions: []Question{
					{
						ID:         "TA-1",
						Prompt:     "Do all staff receive security awareness training covering phishing and ransomware at least annually?",
						ControlRef: "NIST IR 8374 8.1 | CSF PR.AT-1",
						Guidance:   "Training reduces click rates; it does not eliminate them.",
					},
					{
						ID:         "TA-2",
						Prompt:     "Are simulated phishing exercises run, with follow-up for repeat clickers?",
						ControlRef: "NIST IR 8374 8.2 | CSF PR.AT-1",
						Guidance:   "Simulations measure what training actually changed.",
					},
					{
						ID:         "TA-3",
						Prompt:     "Do staff know how to report a suspected phishing email or infection, and is reporting encouraged?",
						ControlRef: "NIST IR 8374 8.3 | CSF DE.DP-4",
						Guidance:   "Early user reports routinely beat automated detection.",
					},
				},
			},
		},
	}
}

func supplyChainCatalog() *Catalog {
	return &Catalog{
		Type:      "supply-chain",
		Name:      "Supply Chain Risk Assessment",
		Framework: "NIST SP 800-161",
		Sections: []Section{
			{
				Title:         "Supplier Inventory & Criticality",
				Description:   "Knowing who your suppliers are and which ones matter.",
				Complexity:    ComplexityLow,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "SI-1",
						Prompt:     "Do you maintain a complete inventory of suppliers with access to your systems or data?",
						ControlRef: "NIST SP 800-161 2.2",
						Guidance:   "Shadow vendors acquired through business units are a common blind spot.",
					},
					{
						ID:         "SI-2",
						Prompt:     "Are suppliers tiered by criticality and the sensitivity of what they access?",
						ControlRef: "NIST SP 800-161 2.3",
						Guidance:   "Tiering focuses assurance effort where a compromise hurts most.",
					},
					{
						ID:         "SI-3",
						Prompt:     "Is there a defined owner for supply chain risk management?",
						ControlRef: "NIST SP 800-161 2.1",
						Guidance:   "Distributed ownership usually means no ownership.",
					},
				},
			},
			{
				Title:         "Supplier Assessment & Contracts",
				Description:   "Due diligence before and during the relationship.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "15 minutes",
				Questions: []Question{
					{
						ID:         "SA-1",
						Prompt:     "Are security assessments performed before onboarding suppliers that handle sensitive data?",
						ControlRef: "NIST SP 800-161 3.1",
						Guidance:   "Questionnaires are a floor, not a ceiling; verify critical claims.",
					},
					{
						ID:         "SA-2",
						Prompt:     "Do contracts include security requirements, audit rights, and breach notification timelines?",
						ControlRef: "NIST SP 800-161 3.2",
						Guidance:   "Unwritten expectations are unenforceable.",
					},
					{
						ID:         "SA-3",
						Prompt:     "Are critical suppliers reassessed on a recurring schedule?",
						ControlRef: "NIST SP 800-161 3.4",
						Guidance:   "A vendor's posture at onboarding decays without review.",
					},
					{
						ID:         "SA-4",
						Prompt:     "Do you evaluate the concentration risk of depending on a single supplier for a critical service?",
						ControlRef: "NIST SP 800-161 3.5",
						Guidance:   "Resilience planning needs alternatives identified before the outage.",
					},
				},
			},
			{
				Title:         "Software & Component Integrity",
				Description:   "Trust in the code and components you deploy.",
				Complexity:    ComplexityHigh,
				EstimatedTime: "15 minutes",
				Questions: []Question{
					{
						ID:         "CI-1",
						Prompt:     "Do you require or produce a software bill of materials (SBOM) for critical applications?",
						ControlRef: "NIST SP 800-161 4.1",
						Guidance:   "You cannot patch a dependency you do not know you run.",
					},
					{
						ID:         "CI-2",
						Prompt:     "Are software updates verified (signatures, checksums) before installation?",
						ControlRef: "NIST SP 800-161 4.2",
						Guidance:   "Update-channel compromise is the defining supply chain attack.",
					},
					{
						ID:         "CI-3",
						Prompt:     "Are open-source dependencies scanned for known vulnerabilities in your build pipeline?",
						ControlRef: "NIST SP 800-161 4.3",
						Guidance:   "Transitive dependencies carry most of the exposure.",
					},
				},
			},
			{
				Title:         "Monitoring & Incident Readiness",
				Description:   "Detecting and responding to supplier-originated incidents.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "MI-1",
						Prompt:     "Is supplier access to your environment logged and reviewed?",
						ControlRef: "NIST SP 800-161 5.1",
						Guidance:   "Vendor accounts deserve the same scrutiny as internal admin accounts.",
					},
					{
						ID:         "MI-2",
						Prompt:     "Does your incident response plan cover incidents originating at a supplier?",
						ControlRef: "NIST SP 800-161 5.2",
						Guidance:   "Containment differs when the attacker arrives through a trusted channel.",
					},
					{
						ID:         "MI-3",
						Prompt:     "Can you rapidly identify which suppliers are affected by a disclosed vulnerability?",
						ControlRef: "NIST SP 800-161 5.3",
						Guidance:   "The first week after disclosure decides the blast radius.",
					},
				},
			},
		},
	}
}

func zeroTrustCatalog() *Catalog {
	return &Catalog{
		Type:      "zero-trust",
		Name:      "Zero Trust Maturity Assessment",
		Framework: "NIST SP 800-207",
		Sections: []Section{
			{
				Title:         "Identity",
				Description:   "Identity as the primary perimeter.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "ZT-ID-1",
						Prompt:     "Is there a single authoritative identity provider for workforce access?",
						ControlRef: "NIST SP 800-207 3.1",
						Guidance:   "Fragmented identity stores defeat consistent policy.",
					},
					{
						ID:         "ZT-ID-2",
						Prompt:     "Is phishing-resistant MFA deployed for all users?",
						ControlRef: "NIST SP 800-207 3.1",
						Guidance:   "Push-fatigue attacks erode OTP-based MFA.",
					},
					{
						ID:         "ZT-ID-3",
						Prompt:     "Are access decisions informed by user and device risk signals at authentication time?",
						ControlRef: "NIST SP 800-207 3.3",
						Guidance:   "Static allow lists are the opposite of zero trust.",
					},
				},
			},
			{
				Title:         "Devices",
				Description:   "Device health as an access prerequisite.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "ZT-DV-1",
						Prompt:     "Are all devices accessing corporate resources enrolled and inventoried?",
						ControlRef: "NIST SP 800-207 3.2",
						Guidance:   "Unknown devices cannot be evaluated for trust.",
					},
					{
						ID:         "ZT-DV-2",
						Prompt:     "Is device compliance (patching, encryption, EDR presence) verified before granting access?",
						ControlRef: "NIST SP 800-207 3.2",
						Guidance:   "Posture checks turn device health into an enforceable gate.",
					},
				},
			},
			{
				Title:         "Network & Workloads",
				Description:   "Removing implicit trust from network location.",
				Complexity:    ComplexityHigh,
				EstimatedTime: "15 minutes",
				Questions: []Question{
					{
						ID:         "ZT-NW-1",
						Prompt:     "Is access to applications granted per-session rather than by network placement?",
						ControlRef: "NIST SP 800-207 2.1",
						Guidance:   "Being on the VPN should not mean reaching everything.",
					},
					{
						ID:         "ZT-NW-2",
						Prompt:     "Is east-west traffic between workloads restricted and authenticated?",
						ControlRef: "NIST SP 800-207 3.4",
						Guidance:   "Flat server networks hand attackers lateral movement for free.",
					},
					{
						ID:         "ZT-NW-3",
						Prompt:     "Are legacy implicit-trust paths (site-to-site tunnels, jump hosts with broad reach) being retired?",
						ControlRef: "NIST SP 800-207 7.3",
						Guidance:   "Zero trust fails open through the exceptions.",
					},
				},
			},
			{
				Title:         "Visibility & Analytics",
				Description:   "Continuous evaluation instead of one-time decisions.",
				Complexity:    ComplexityHigh,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "ZT-VA-1",
						Prompt:     "Are access decisions and denials centrally logged and analyzed?",
						ControlRef: "NIST SP 800-207 3.5",
						Guidance:   "Policy tuning requires seeing what the policy actually did.",
					},
					{
						ID:         "ZT-VA-2",
						Prompt:     "Can sessions be revoked in near real time when risk changes?",
						ControlRef: "NIST SP 800-207 3.3",
						Guidance:   "Trust must be revocable mid-session, not only at login.",
					},
				},
			},
		},
	}
}

func segmentationCatalog() *Catalog {
	return &Catalog{
		Type:      "network-segmentation",
		Name:      "Network Segmentation Assessment",
		Framework: "CISA Infrastructure Guidance",
		Sections: []Section{
			{
				Title:         "Segmentation Design",
				Description:   "How the network is divided and why.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "NS-1",
						Prompt:     "Is the network segmented into zones based on data sensitivity and business function?",
						ControlRef: "CISA CPG 2.F",
						Guidance:   "Segmentation by sensitivity contains compromise to a zone.",
					},
					{
						ID:         "NS-2",
						Prompt:     "Is there a current, accurate network diagram showing zones and the paths between them?",
						ControlRef: "CISA CPG 2.P",
						Guidance:   "Undocumented paths are unmanaged paths.",
					},
					{
						ID:         "NS-3",
						Prompt:     "Are operational technology or high-value systems isolated from the general IT network?",
						ControlRef: "CISA CPG 2.F",
						Guidance:   "OT-reachable-from-email is how plants get shut down.",
					},
				},
			},
			{
				Title:         "Enforcement & Access Control",
				Description:   "Controls that make the segment boundaries real.",
				Complexity:    ComplexityHigh,
				EstimatedTime: "15 minutes",
				Questions: []Question{
					{
						ID:         "NE-1",
						Prompt:     "Is traffic between zones denied by default and permitted only by documented rule?",
						ControlRef: "CISA CPG 2.X",
						Guidance:   "Default-allow between zones is decoration, not segmentation.",
					},
					{
						ID:         "NE-2",
						Prompt:     "Are firewall and ACL rules reviewed on a schedule, with stale rules removed?",
						ControlRef: "CISA CPG 2.X",
						Guidance:   "Rule bases only grow unless someone prunes them.",
					},
					{
						ID:         "NE-3",
						Prompt:     "Is administrative access to network devices restricted to a dedicated management zone?",
						ControlRef: "CISA CPG 2.K",
						Guidance:   "Management interfaces on user VLANs invite takeover.",
					},
				},
			},
			{
				Title:         "Validation & Monitoring",
				Description:   "Proving the segmentation works and stays working.",
				Complexity:    ComplexityMedium,
				EstimatedTime: "10 minutes",
				Questions: []Question{
					{
						ID:         "NV-1",
						Prompt:     "Do you test segmentation boundaries (scanning between zones) at least annually?",
						ControlRef: "CISA CPG 2.W",
						Guidance:   "Misconfigurations accumulate silently until tested.",
					},
					{
						ID:         "NV-2",
						Prompt:     "Is cross-zone traffic monitored for unexpected flows?",
						ControlRef: "CISA CPG 2.T",
						Guidance:   "A new flow between zones is either a change ticket or an incident.",
					},
					{
						ID:         "NV-3",
						Prompt:     "Are changes to segmentation rules subject to change control with security review?",
						ControlRef: "CISA CPG 2.Q",
						Guidance:   "Emergency any-any rules have a way of becoming permanent.",
					},
				},
			},
		},
	}
}
