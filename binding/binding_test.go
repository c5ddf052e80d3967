package binding

import (
	"encoding/json"
	"testing"
)

func mustJSON(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("解析测试数据失败: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := mustJSON(t, `{"user":{"name":"Ada","age":36,"score":9.5,"admin":true},"items":[{"title":"first"},{"title":"second"}],"tags":["a","b"]}`)
	cases := []struct {
		in   string
		want string
	}{
		{in: "hello ${user.name}", want: "hello Ada"},
		{in: "${user.age} years", want: "36 years"},
		{in: "${user.score}", want: "9.5"},
		{in: "${user.admin}", want: "true"},
		{in: "${items[1].title}", want: "second"},
		{in: "${tags[0]}${tags[1]}", want: "ab"},
		{in: "${ user.name }", want: "Ada"},
		{in: "${user.missing}", want: "${user.missing}"},
		{in: "${user.missing|nobody}", want: "nobody"},
		{in: "${items[9].title|none}", want: "none"},
		{in: "${user.name|fallback}", want: "Ada"},
		{in: "plain text", want: "plain text"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a|x} ${b}", nil); got != "x ${b}" {
		t.Fatalf("nil 数据时应只使用默认值, got %q", got)
	}
}

func TestInterpolateStrict(t *testing.T) {
	data := mustJSON(t, `{"a":"1"}`)
	if out, err := InterpolateStrict("${a}", data); err != nil || out != "1" {
		t.Fatalf("应成功: %q %v", out, err)
	}
	if _, err := InterpolateStrict("${a} ${b} ${c}", data); err == nil {
		t.Fatalf("缺少数据时应返回错误")
	}
}

func TestHasPlaceholders(t *testing.T) {
	if !HasPlaceholders("x ${y}") || HasPlaceholders("x $y {z}") {
		t.Fatalf("占位符检测错误")
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"m": map[string]string{"k": "v"}, "s": []string{"x"}}
	if v, ok := Lookup(data, "m.k"); !ok || v != "v" {
		t.Fatalf("Lookup m.k 失败: %v %v", v, ok)
	}
	if v, ok := Lookup(data, "s[0]"); !ok || v != "x" {
		t.Fatalf("Lookup s[0] 失败: %v %v", v, ok)
	}
	for _, path := range []string{"", "m.z", "s[x]", "s[-1]", "m[0]"} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("Lookup(%q) 应失败", path)
		}
	}
}
