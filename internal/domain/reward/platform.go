package reward

import "strings"

// Platform is the structural classification of an opaque player id. It is an
// annotation only; "unknown" is a legal value and never blocks a grant or a
// message.
type Platform string

// Known platform families.
const (
	PlatformSteam   Platform = "steam"
	PlatformEpic    Platform = "epic"
	PlatformXbox    Platform = "xbox"
	PlatformUnknown Platform = "unknown"
)

const (
	steamIDLength = 17 // steam ids are 17-digit numbers
	epicIDLength  = 32 // epic ids are 32-char hex strings
)

// Hint returns the value to attach to API calls: the platform name, or empty
// for unknown so the hint is omitted rather than sent as a guess.
func (p Platform) Hint() string {
	if p == PlatformUnknown {
		return ""
	}
	return string(p)
}

// DetectPlatform classifies a player id by its structural pattern.
func DetectPlatform(id string) Platform {
	if id == "" {
		return PlatformUnknown
	}

	if len(id) == steamIDLength && allDigits(id) {
		return PlatformSteam
	}
	if len(id) == epicIDLength && allHex(strings.ToLower(id)) {
		return PlatformEpic
	}
	if strings.HasPrefix(id, "xbl_") || strings.Contains(strings.ToLower(id), "xbox") {
		return PlatformXbox
	}
	return PlatformUnknown
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
