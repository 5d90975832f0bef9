package reflecttype

import "testing"

func TestIsPrimitive(t *testing.T) {
	cases := map[string]bool{
		"int":                       true,
		"const int":                 true,
		"int&":                      true,
		"const int&":                true,
		"const std::string&":        true,
		"std::string":               true,
		"std::basic_string<char>":   true,
		"float":                     true,
		"bool":                      true,
		"uint32_t":                  true,
		"MyStruct":                  false,
		"std::vector<int>":          false,
		"const MyClass*":            false,
		"BECore::Player":            false,
	}

	for spelling, want := range cases {
		if got := IsPrimitive(spelling); got != want {
			t.Errorf("IsPrimitive(%q) = %v, want %v", spelling, got, want)
		}
	}
}
