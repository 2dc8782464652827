package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Params
		wantPage  int
		wantLimit int
	}{
		{name: "zeroValues", in: Params{}, wantPage: 1, wantLimit: DefaultLimit},
		{name: "negativePage", in: Params{Page: -3, Limit: 20}, wantPage: 1, wantLimit: 20},
		{name: "limitCapped", in: Params{Page: 2, Limit: 500}, wantPage: 2, wantLimit: MaxLimit},
		{name: "passThrough", in: Params{Page: 4, Limit: 25}, wantPage: 4, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Fatalf("Normalize(%+v) = %+v", tt.in, got)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if off := (Params{Page: 1, Limit: 10}).Offset(); off != 0 {
		t.Fatalf("first page offset should be 0, got %d", off)
	}
	if off := (Params{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Fatalf("expected offset 20, got %d", off)
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, Limit: 10}, 25)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.TotalPages)
	}
	if meta.Total != 25 || meta.Page != 2 || meta.Limit != 10 {
		t.Fatalf("unexpected meta %+v", meta)
	}

	empty := BuildMeta(Params{}, 0)
	if empty.TotalPages != 1 {
		t.Fatalf("empty result should still report one page, got %d", empty.TotalPages)
	}
}
