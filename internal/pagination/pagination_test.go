package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Page: 1, PageSize: DefaultPageSize}},
		{PageRequest{Page: 3, PageSize: 10}, PageRequest{Page: 3, PageSize: 10}},
		{PageRequest{Page: -2, PageSize: 500}, PageRequest{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (PageRequest{Page: 3, PageSize: 20}).Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, PageRequest{Page: 1, PageSize: 2}, 5)

	if resp.Data == nil {
		t.Error("expected empty slice, got nil")
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}

	if empty := NewPageResponse([]int{}, PageRequest{Page: 1, PageSize: 20}, 0); empty.TotalPages != 0 {
		t.Errorf("expected 0 pages for no items, got %d", empty.TotalPages)
	}
}
