package attendance

import (
	"testing"
)

func TestProcessPreviewRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     ProcessPreviewRequest
		wantErr bool
	}{
		{"single ok", ProcessPreviewRequest{Mode: ProcessModeSingle, Date: "2025-03-10"}, false},
		{"single bad date", ProcessPreviewRequest{Mode: ProcessModeSingle, Date: "10-03-2025"}, true},
		{"range ok", ProcessPreviewRequest{Mode: ProcessModeRange, StartDate: "2025-03-01", EndDate: "2025-03-31"}, false},
		{"range inverted", ProcessPreviewRequest{Mode: ProcessModeRange, StartDate: "2025-03-31", EndDate: "2025-03-01"}, true},
		{"range too long", ProcessPreviewRequest{Mode: ProcessModeRange, StartDate: "2025-01-01", EndDate: "2025-06-01"}, true},
		{"unknown mode", ProcessPreviewRequest{Mode: "bulk", Date: "2025-03-10"}, true},
	}
	for _, c := range cases {
		err := c.req.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestProcessPreviewRequestDates(t *testing.T) {
	single := ProcessPreviewRequest{Mode: ProcessModeSingle, Date: "2025-03-10"}
	dates := single.Dates()
	if len(dates) != 1 || DateKey(dates[0]) != "2025-03-10" {
		t.Fatalf("single Dates() = %v", dates)
	}

	ranged := ProcessPreviewRequest{Mode: ProcessModeRange, StartDate: "2025-03-10", EndDate: "2025-03-12"}
	dates = ranged.Dates()
	if len(dates) != 3 {
		t.Fatalf("range Dates() returned %d days, want 3", len(dates))
	}
	if DateKey(dates[0]) != "2025-03-10" || DateKey(dates[2]) != "2025-03-12" {
		t.Errorf("range Dates() bounds = %s..%s", DateKey(dates[0]), DateKey(dates[2]))
	}
}
