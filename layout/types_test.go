package layout

import "testing"

func TestDefaultCaptionOnSurface(t *testing.T) {
	c := DefaultCaption(600, 500)
	if c.X != 300 || c.Y != 250 || c.FontSize != 40 || c.FontColor != "#ffffff" || c.OutlineWidth != 3 {
		t.Fatalf("默认字幕错误: %+v", c)
	}
	if c.Text != "Your text" || c.FontFamily != "Impact" || c.OutlineColor != "#000000" || c.Bold || c.Italic {
		t.Fatalf("默认样式错误: %+v", c)
	}
}

// TestPatchLeavesUnsetFields 验证：未设置的字段保持原值。
func TestPatchLeavesUnsetFields(t *testing.T) {
	base := DefaultCaption(600, 500)
	got := Patch{Text: Ptr("hi"), Bold: Ptr(true), OutlineWidth: Ptr(0.0)}.Apply(base)

	want := base
	want.Text = "hi"
	want.Bold = true
	want.OutlineWidth = 0
	if got != want {
		t.Fatalf("Patch 合并错误:\n got=%+v\nwant=%+v", got, want)
	}
	if (Patch{}).Apply(base) != base {
		t.Fatalf("空 Patch 不应修改字幕")
	}
	if !(Patch{}).IsEmpty() || At(1, 2).IsEmpty() {
		t.Fatalf("IsEmpty 判断错误")
	}
}

func TestAtPatch(t *testing.T) {
	got := At(120, 130).Apply(DefaultCaption(600, 500))
	if got.X != 120 || got.Y != 130 || got.Text != DefaultText {
		t.Fatalf("At 合并错误: %+v", got)
	}
}
