package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		req        PageRequest
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"page only", PageRequest{Page: 3}, 3, 20, 40},
		{"size only", PageRequest{PageSize: 5}, 1, 5, 0},
		{"both", PageRequest{Page: 2, PageSize: 10}, 2, 10, 10},
		{"size capped", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}
			if req.Offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", req.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestPageRequest_Active(t *testing.T) {
	if (PageRequest{}).Active() {
		t.Error("empty request should not be active")
	}
	if !(PageRequest{Page: 1}).Active() {
		t.Error("page=1 should be active")
	}
}
