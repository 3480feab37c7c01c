package locator

import (
	"testing"
)

func TestClassifier_IOS(t *testing.T) {
	snap := mustParse(t, `<AppiumAUT>
  <XCUIElementTypeButton name="ok" enabled="true" visible="true" />
  <XCUIElementTypeButton name="off" enabled="false" visible="true" />
  <XCUIElementTypeButton name="hidden" enabled="true" visible="false" />
  <XCUIElementTypeImage name="logo" />
  <XCUIElementTypeSwitch name="toggle" />
</AppiumAUT>`)

	classifier := NewClassifier(nil)
	children := snap.Root.Children

	if !classifier.Interactive("ios", children[0]) {
		t.Error("Enabled visible button should be interactive")
	}
	if classifier.Interactive("ios", children[1]) {
		t.Error("Disabled button should not be interactive")
	}
	if classifier.Interactive("ios", children[2]) {
		t.Error("Hidden button should not be interactive")
	}
	if classifier.Interactive("ios", children[3]) {
		t.Error("Image should not be interactive")
	}
	// enabled/visible absent defaults to true
	if !classifier.Interactive("ios", children[4]) {
		t.Error("Switch without state attributes should be interactive")
	}
}

func TestClassifier_ExtraTags(t *testing.T) {
	snap := mustParse(t, `<AppiumAUT>
  <XCUIElementTypeImage name="tappableLogo" />
</AppiumAUT>`)

	plain := NewClassifier(nil)
	extended := NewClassifier([]string{"XCUIElementTypeImage"})

	image := snap.Root.Children[0]
	if plain.Interactive("ios", image) {
		t.Error("Image should not be interactive by default")
	}
	if !extended.Interactive("ios", image) {
		t.Error("Image should be interactive with extended tag set")
	}
}

func TestClassifier_Android(t *testing.T) {
	snap := mustParse(t, `<hierarchy>
  <android.widget.Button text="Go" clickable="true" enabled="true" displayed="true" />
  <android.widget.Button text="Off" clickable="true" enabled="false" displayed="true" />
  <android.widget.TextView text="Title" clickable="false" enabled="true" displayed="true" />
</hierarchy>`)

	classifier := NewClassifier(nil)
	children := snap.Root.Children

	if !classifier.Interactive("android", children[0]) {
		t.Error("Clickable enabled button should be interactive")
	}
	if classifier.Interactive("android", children[1]) {
		t.Error("Disabled button should not be interactive")
	}
	if classifier.Interactive("android", children[2]) {
		t.Error("Non-clickable TextView should not be interactive")
	}

	if got := classifier.Classification("android", children[0]); got != "Interactive" {
		t.Errorf("Expected Interactive, got %s", got)
	}
	if got := classifier.Classification("android", children[2]); got != "Non-Interactive" {
		t.Errorf("Expected Non-Interactive, got %s", got)
	}
}

func TestCandidates_IOS(t *testing.T) {
	snap := mustParse(t, `<AppiumAUT>
  <XCUIElementTypeButton name="submitBtn" label="Submit" value="on" />
</AppiumAUT>`)

	candidates := Candidates("ios", snap.Root.Children[0])
	want := []string{
		"**/XCUIElementTypeButton[@name='submitBtn']",
		"**/XCUIElementTypeButton[@label='Submit']",
		"**/XCUIElementTypeButton[@value='on']",
		"**/XCUIElementTypeButton[@name='submitBtn' and @label='Submit']",
	}
	if len(candidates) != len(want) {
		t.Fatalf("Expected %d candidates, got %d: %v", len(want), len(candidates), candidates)
	}
	for i := range want {
		if candidates[i] != want[i] {
			t.Errorf("Candidate %d: expected %s, got %s", i, want[i], candidates[i])
		}
	}
}

func TestCandidates_LabelSameAsName(t *testing.T) {
	snap := mustParse(t, `<AppiumAUT>
  <XCUIElementTypeButton name="Done" label="Done" />
</AppiumAUT>`)

	candidates := Candidates("ios", snap.Root.Children[0])
	for _, c := range candidates {
		if c == "**/XCUIElementTypeButton[@label='Done']" {
			t.Error("Label candidate should be skipped when label equals name")
		}
	}
}

func TestCandidates_Android(t *testing.T) {
	snap := mustParse(t, `<hierarchy>
  <android.widget.Button resource-id="com.example:id/go" text="Go" content-desc="Go button" />
</hierarchy>`)

	candidates := Candidates("android", snap.Root.Children[0])
	want := []string{
		"//android.widget.Button[@resource-id='com.example:id/go']",
		"//android.widget.Button[@text='Go']",
		"//android.widget.Button[@content-desc='Go button']",
	}
	if len(candidates) != len(want) {
		t.Fatalf("Expected %d candidates, got %d: %v", len(want), len(candidates), candidates)
	}
	for i := range want {
		if candidates[i] != want[i] {
			t.Errorf("Candidate %d: expected %s, got %s", i, want[i], candidates[i])
		}
	}
}

func TestUniqueKey(t *testing.T) {
	snap := mustParse(t, `<AppiumAUT>
  <XCUIElementTypeButton name="a" x="10" y="20" width="30" height="40" />
  <XCUIElementTypeButton name="a" x="10" y="20" width="30" height="40" />
  <XCUIElementTypeButton name="b" x="10" y="20" width="30" height="40" />
</AppiumAUT>`)

	children := snap.Root.Children
	if UniqueKey("ios", children[0]) != UniqueKey("ios", children[1]) {
		t.Error("Identical elements should share a key")
	}
	if UniqueKey("ios", children[0]) == UniqueKey("ios", children[2]) {
		t.Error("Elements with different names should not share a key")
	}
}
