package audit

// ValidTaxID checks a 9-digit tax identifier against its mod-11 check digit.
func ValidTaxID(s string) bool {
	if len(s) != 9 {
		return false
	}
	var d [9]int
	for i := 0; i < 9; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d[i] = int(c - '0')
	}
	sum := 0
	for i := 0; i < 8; i++ {
		sum += d[i] * (9 - i)
	}
	check := 11 - sum%11
	if check >= 10 {
		check = 0
	}
	return check == d[8]
}

// TaxIDStatus is the inline validation state: empty until 9 characters are typed.
func TaxIDStatus(s string) string {
	if len(s) != 9 {
		return ""
	}
	if ValidTaxID(s) {
		return "valid"
	}
	return "invalid"
}
