package workspacekey

import (
	"strings"
	"testing"
)

func TestCompute_KeyStability(t *testing.T) {
	// Scenario W1-ish: case, slash-direction and trailing-slash variants of
	// one drive-letter path all normalize to the same canon path and
	// therefore the same key.
	variants := []string{
		`C:\Projects\MyApp`,
		"c:/projects/myapp",
		"C:/Projects/MyApp/",
		`c:\projects\myapp\`,
	}

	var keys []Key
	for _, v := range variants {
		k, err := Compute(v)
		if err != nil {
			t.Fatalf("Compute(%q) error: %v", v, err)
		}
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[0] {
			t.Fatalf("Compute(%q) = %s, want %s (same as %q)", variants[i], keys[i], keys[0], variants[0])
		}
	}
	if !keyPattern.MatchString(string(keys[0])) {
		t.Fatalf("key %q does not match ^[a-f0-9]{32}$", keys[0])
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	paths := []string{"/home/user/My Project", "/tmp", "//server/share", "c:"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			once, err := Normalize(p)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", p, err)
			}
			twice, err := Normalize(once)
			if err != nil {
				t.Fatalf("Normalize(%q) (second pass) error: %v", once, err)
			}
			if once != twice {
				t.Fatalf("Normalize not idempotent: %q != %q", once, twice)
			}
		})
	}
}

func TestCompute_ASCIICaseInsensitive(t *testing.T) {
	lower, err := Compute("/home/user/project")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	upper, err := Compute("/HOME/USER/PROJECT")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if lower != upper {
		t.Fatalf("Compute is not ASCII case-insensitive: %s != %s", lower, upper)
	}
}

func TestCompute_SlashDirectionInsensitive(t *testing.T) {
	fwd, err := Compute("/home/user/project")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	back, err := Compute(`\home\user\project`)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if fwd != back {
		t.Fatalf("Compute is not slash-direction-insensitive: %s != %s", fwd, back)
	}
}

func TestCompute_TrailingSlashInsensitiveForLongPaths(t *testing.T) {
	base, err := Compute("/home/user/project")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	withSlash, err := Compute("/home/user/project/")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if base != withSlash {
		t.Fatalf("trailing slash changed key: %s != %s", base, withSlash)
	}
}

func TestCompute_DriveRootVariants(t *testing.T) {
	a, err := Compute("C:")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	b, err := Compute(`C:\`)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	c, err := Compute("C:/")
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if a != b || b != c {
		t.Fatalf("drive-root variants disagree: %s, %s, %s", a, b, c)
	}
}

func TestCompute_UNCShareRootNoTrailingSlash(t *testing.T) {
	got, err := Normalize("//SERVER/Share/")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if strings.HasSuffix(got, "/") {
		t.Fatalf("UNC share root retained trailing slash: %q", got)
	}
	if got != "//server/share" {
		t.Fatalf("Normalize(//SERVER/Share/) = %q, want //server/share", got)
	}
}

func TestCompute_RejectsInvalidInput(t *testing.T) {
	for _, bad := range []string{"", "   ", "/tmp/\x00bad"} {
		if _, err := Compute(bad); err == nil {
			t.Fatalf("Compute(%q) expected error, got nil", bad)
		}
	}
}

func TestNormalize_CollapsesExcessLeadingSlashes(t *testing.T) {
	got, err := Normalize("////server/share")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if strings.HasPrefix(got, "///") {
		t.Fatalf("leading slash run not collapsed: %q", got)
	}
}
