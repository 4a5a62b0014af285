package core

import (
	"errors"
	"testing"
)

func TestParseTiles(t *testing.T) {
	got, err := ParseTiles("123m 55z, 1p")
	if err != nil {
		t.Fatalf("ParseTiles failed: %v", err)
	}
	want := []TileKey{1, 2, 3, KeyRed, KeyRed, 21}
	if len(got) != len(want) {
		t.Fatalf("期望 %d 张, 实际 = %d", len(want), len(got))
	}
	for i, k := range want {
		if got[i].Key() != k {
			t.Errorf("第 %d 张期望 %v, 实际 = %v", i, k, got[i])
		}
	}
	if got[3].Copy != 0 || got[4].Copy != 1 {
		t.Errorf("同一种牌期望依次分配副本, 实际 = %d %d", got[3].Copy, got[4].Copy)
	}
}

func TestParseTilesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"缺少花色", "123"},
		{"字母前无数字", "m"},
		{"非法字符", "12x"},
		{"字牌越界", "8z"},
		{"零点", "0m"},
		{"超过四张", "11111m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTiles(tt.input); err == nil {
				t.Errorf("ParseTiles(%q) 期望报错", tt.input)
			}
		})
	}

	_, err := ParseTiles("11111m")
	if !errors.Is(err, ErrInvalidTile) {
		t.Errorf("期望 ErrInvalidTile, 实际 = %v", err)
	}
}

func TestFormatTiles(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"321m", "123m"},
		{"9p1s5m", "5m1s9p"},
		{"7z1z", "1z7z"},
		{"", ""},
	}
	for _, tt := range tests {
		got := FormatTiles(MustParseTiles(tt.input))
		if got != tt.want {
			t.Errorf("FormatTiles(%q) 期望 %q, 实际 = %q", tt.input, tt.want, got)
		}
	}
}

func TestMustParseTilesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("期望 panic")
		}
	}()
	MustParseTiles("bad")
}

func TestParseSingle(t *testing.T) {
	tile, err := ParseTile("7z")
	if err != nil || tile.Key() != KeyWhite {
		t.Errorf("ParseTile(7z) 期望 白, 实际 = %v, %v", tile, err)
	}
	if _, err := ParseTile("12m"); !errors.Is(err, ErrInvalidTile) {
		t.Errorf("两张牌期望 ErrInvalidTile, 实际 = %v", err)
	}

	for letter, want := range map[string]TileSuit{"m": TileSuitWan, "s": TileSuitTiao, "p": TileSuitTong} {
		got, err := ParseSuit(letter)
		if err != nil || got != want {
			t.Errorf("ParseSuit(%s) 期望 %v, 实际 = %v, %v", letter, want, got, err)
		}
		if got.Letter() != letter {
			t.Errorf("Letter 期望 %s, 实际 = %s", letter, got.Letter())
		}
	}
	if _, err := ParseSuit("z"); err == nil {
		t.Error("字牌不能定缺")
	}
	if NoSuit.Letter() != "" {
		t.Errorf("NoSuit.Letter 期望空串, 实际 = %q", NoSuit.Letter())
	}

	opt, err := ParseChow("534m")
	if err != nil || opt != (ChowOption{3, 4, 5}) {
		t.Errorf("ParseChow(534m) 期望 [3 4 5], 实际 = %v, %v", opt, err)
	}
	for _, bad := range []string{"135m", "89m1p", "123z", "12m"} {
		if _, err := ParseChow(bad); err == nil {
			t.Errorf("ParseChow(%s) 期望失败", bad)
		}
	}

	for c := ClaimPass; c <= ClaimWin; c++ {
		got, err := ParseClaim(c.String())
		if err != nil || got != c {
			t.Errorf("ParseClaim(%s) 期望 %v, 实际 = %v, %v", c, c, got, err)
		}
	}
	if _, err := ParseClaim("ron"); err == nil {
		t.Error("未知响应类型期望失败")
	}
}
