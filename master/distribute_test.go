package master

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		workers int
		want    [][]string
	}{
		{
			name:    "round robin",
			files:   []string{"f0", "f1", "f2", "f3", "f4"},
			workers: 2,
			want:    [][]string{{"f0", "f2", "f4"}, {"f1", "f3"}},
		},
		{
			name:    "single worker keeps order",
			files:   []string{"f0", "f1", "f2"},
			workers: 1,
			want:    [][]string{{"f0", "f1", "f2"}},
		},
		{
			name:    "more workers than files",
			files:   []string{"f0", "f1"},
			workers: 4,
			want:    [][]string{{"f0"}, {"f1"}, nil, nil},
		},
		{
			name:    "no files",
			files:   nil,
			workers: 3,
			want:    [][]string{nil, nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distribute(tt.files, tt.workers)
			if len(got) != tt.workers {
				t.Fatalf("expected %d lists, got %d", tt.workers, len(got))
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Distribute mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
