package slabinfo

import "testing"

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"a", SortActiveObjs},
		{"n", SortName},
		{"s", SortObjSize},
		// Unrecognized keys fall back to the default; that is policy,
		// not an error.
		{"x", SortActiveObjs},
		{"", SortActiveObjs},
	}

	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSort(t *testing.T) {
	base := func() []CacheStat {
		return []CacheStat{
			{Name: "dentry", ObjSize: 192, ActiveObjs: 5000},
			{Name: "kmalloc-64", ObjSize: 64, ActiveObjs: 9000},
			{Name: "inode_cache", ObjSize: 608, ActiveObjs: 5000},
		}
	}

	tests := []struct {
		name string
		key  SortKey
		want []string
	}{
		{
			name: "active objects descending",
			key:  SortActiveObjs,
			// dentry/inode_cache tie on the count; stable sort keeps
			// their input order.
			want: []string{"kmalloc-64", "dentry", "inode_cache"},
		},
		{
			name: "name ascending",
			key:  SortName,
			want: []string{"dentry", "inode_cache", "kmalloc-64"},
		},
		{
			name: "object size descending",
			key:  SortObjSize,
			want: []string{"inode_cache", "dentry", "kmalloc-64"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := base()
			Sort(stats, tt.key)
			for i, want := range tt.want {
				if stats[i].Name != want {
					t.Errorf("position %d = %q, want %q", i, stats[i].Name, want)
				}
			}
		})
	}
}

func TestCacheStat_ActiveBytes(t *testing.T) {
	c := CacheStat{Name: "kmalloc-64", ObjSize: 64, ActiveObjs: 1000}
	if got := c.ActiveBytes(); got != 64000 {
		t.Errorf("ActiveBytes() = %v, want 64000", got)
	}
}
