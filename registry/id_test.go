package registry

import "testing"

func TestParseIDFull(t *testing.T) {
	id, err := ParseID("iana:Europe/Paris#2024a")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.GroupID != "iana" || id.RegionID != "Europe/Paris" || id.VersionID != "2024a" || id.Fixed {
		t.Errorf("ParseID = %+v", id)
	}
}

func TestParseIDOmittedGroupAndVersion(t *testing.T) {
	id, err := ParseID("Europe/Paris")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.GroupID != "" || id.RegionID != "Europe/Paris" || id.VersionID != "" || id.Fixed {
		t.Errorf("ParseID = %+v", id)
	}
}

func TestParseIDOmittedGroupWithVersion(t *testing.T) {
	id, err := ParseID("Europe/Paris#2024a")
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if id.GroupID != "" || id.RegionID != "Europe/Paris" || id.VersionID != "2024a" {
		t.Errorf("ParseID = %+v", id)
	}
}

func TestParseIDFixedOffsetForms(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"Z", 0},
		{"+02:00", 2 * 3600},
		{"-05:30", -(5*3600 + 30*60)},
		{"+00:00:30", 30},
	}
	for _, c := range cases {
		id, err := ParseID(c.in)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", c.in, err)
		}
		if !id.Fixed {
			t.Fatalf("ParseID(%q).Fixed = false; want true", c.in)
		}
		if id.FixedOffset.TotalSeconds() != c.want {
			t.Errorf("ParseID(%q) offset = %d; want %d", c.in, id.FixedOffset.TotalSeconds(), c.want)
		}
	}
}

func TestParseIDRejectsEmptyRegion(t *testing.T) {
	if _, err := ParseID("iana:"); err == nil {
		t.Error("expected error for empty region")
	}
}

func TestParseIDRoundTripsString(t *testing.T) {
	for _, s := range []string{"iana:Europe/Paris#2024a", "Europe/Paris", "+02:00", "Z"} {
		id, err := ParseID(s)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", s, err)
		}
		if got := id.String(); got != s {
			t.Errorf("ParseID(%q).String() = %q; want %q", s, got, s)
		}
	}
}
