package tw

import "testing"

func TestCN(t *testing.T) {
	if got := CN("a", "", "  b  ", If(false, "c"), If(true, "d")); got != "a b d" {
		t.Errorf("CN = %q", got)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{
			name: "no conflicts",
			in:   []string{"flex flex-col", "items-center"},
			want: "flex flex-col items-center",
		},
		{
			name: "later padding axis wins",
			in:   []string{"px-6 py-10", "py-[4.25rem]"},
			want: "px-6 py-[4.25rem]",
		},
		{
			name: "shorthand padding overrides axes",
			in:   []string{"px-2 pt-1", "p-4"},
			want: "p-4",
		},
		{
			name: "axis does not remove shorthand",
			in:   []string{"p-4", "px-2"},
			want: "p-4 px-2",
		},
		{
			name: "border color vs width vs style",
			in:   []string{"border-2 border-dashed border-input", "border-primary"},
			want: "border-2 border-dashed border-primary",
		},
		{
			name: "bare border is a width",
			in:   []string{"border border-4"},
			want: "border-4",
		},
		{
			name: "background color vs position",
			in:   []string{"bg-background bg-center", "bg-primary/5"},
			want: "bg-center bg-primary/5",
		},
		{
			name: "text size vs color",
			in:   []string{"text-sm text-muted-foreground", "text-primary"},
			want: "text-sm text-primary",
		},
		{
			name: "variants are separate",
			in:   []string{"bg-primary hover:bg-primary/90", "hover:bg-primary/80"},
			want: "bg-primary hover:bg-primary/80",
		},
		{
			name: "pseudo element width",
			in:   []string{"after:w-0", "after:w-[50%]"},
			want: "after:w-[50%]",
		},
		{
			name: "display and position",
			in:   []string{"block relative", "hidden absolute"},
			want: "hidden absolute",
		},
		{
			name: "negative z index",
			in:   []string{"z-10 -z-20"},
			want: "-z-20",
		},
		{
			name: "exact duplicates collapse",
			in:   []string{"sr-only", "sr-only"},
			want: "sr-only",
		},
		{
			name: "arbitrary value with colon",
			in:   []string{"bg-[url(http://x/a.png)]"},
			want: "bg-[url(http://x/a.png)]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Merge(tt.in...); got != tt.want {
				t.Errorf("Merge(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitVariant(t *testing.T) {
	tests := []struct {
		in, variant, utility string
	}{
		{"p-4", "", "p-4"},
		{"md:hover:p-4", "md:hover:", "p-4"},
		{"bg-[url(a:b)]", "", "bg-[url(a:b)]"},
	}
	for _, tt := range tests {
		v, u := splitVariant(tt.in)
		if v != tt.variant || u != tt.utility {
			t.Errorf("splitVariant(%q) = %q, %q", tt.in, v, u)
		}
	}
}
