package service

// routingFieldOK reports whether s looks like a bank routing identifier:
// at least six characters, digits only. Covers both account numbers and
// sort codes.
func routingFieldOK(s string) bool {
	if len(s) < 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
