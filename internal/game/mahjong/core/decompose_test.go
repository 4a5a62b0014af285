package core

import (
	"math/rand"
	"sort"
	"testing"
)

// bruteDecompose 不按最小编码顺序, 任选一组递归, 作为独立的对照实现
func bruteDecompose(c Counts, acc []Group, out map[string]bool) {
	if c.Total() == 0 {
		out[signature(acc)] = true
		return
	}
	for k := TileKey(1); k < KeySpace; k++ {
		if c[k] >= 3 {
			next := c
			next[k] -= 3
			bruteDecompose(next, append(acc, Group{Kind: GroupTriplet, Key: k}), out)
		}
		if k.Suit().IsNumber() && k.Value() <= 7 && c[k] > 0 && c[k+1] > 0 && c[k+2] > 0 {
			next := c
			next[k]--
			next[k+1]--
			next[k+2]--
			bruteDecompose(next, append(acc, Group{Kind: GroupRun, Key: k}), out)
		}
	}
}

func signature(groups []Group) string {
	gs := append([]Group(nil), groups...)
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].Key != gs[j].Key {
			return gs[i].Key < gs[j].Key
		}
		return gs[i].Kind < gs[j].Kind
	})
	sig := make([]byte, 0, len(gs)*2)
	for _, g := range gs {
		sig = append(sig, byte(g.Key), byte(g.Kind))
	}
	return string(sig)
}

func groupCounts(groups []Group) Counts {
	var c Counts
	for _, g := range groups {
		if g.Kind == GroupTriplet {
			c[g.Key] += 3
			continue
		}
		c[g.Key]++
		c[g.Key+1]++
		c[g.Key+2]++
	}
	return c
}

// randomCounts 从一两门花色里随机取 n 张, 提高成型概率
func randomCounts(rng *rand.Rand, n int) Counts {
	var pool []TileKey
	suits := []TileSuit{TileSuitWan, TileSuitTiao}
	if rng.Intn(3) == 0 {
		suits = suits[:1]
	}
	for _, s := range suits {
		for v := int8(1); v <= 9; v++ {
			for i := 0; i < CopiesPerTile; i++ {
				pool = append(pool, TileKey(int8(s)*10+v))
			}
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	var c Counts
	for _, k := range pool[:n] {
		c[k]++
	}
	return c
}

// TestDecomposeSoundness 随机牌与穷举对照: 拆法集合一致, 每种拆法恰好用完所有牌
func TestDecomposeSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(20240601))
	for i := 0; i < 200; i++ {
		size := []int{3, 6, 9, 12}[rng.Intn(4)]
		c := randomCounts(rng, size)

		got := make(map[string]bool)
		for _, groups := range Decompose(c) {
			if groupCounts(groups) != c {
				t.Fatalf("拆法与原牌不一致: %v", groups)
			}
			sig := signature(groups)
			if got[sig] {
				t.Fatalf("拆法重复: %v", groups)
			}
			got[sig] = true
		}

		want := make(map[string]bool)
		bruteDecompose(c, nil, want)

		if len(got) != len(want) {
			t.Fatalf("第 %d 组: 期望 %d 种拆法, 实际 = %d", i, len(want), len(got))
		}
		for sig := range want {
			if !got[sig] {
				t.Fatalf("第 %d 组: 缺少拆法 %v", i, []byte(sig))
			}
		}
	}
}

// TestIsStandardCompleteMatchesDecompose 快速判定与完整拆牌结论一致
func TestIsStandardCompleteMatchesDecompose(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 400; i++ {
		c := randomCounts(rng, 14)
		fast := isStandardComplete(c)
		full := len(decomposeWithPair(c, 14)) > 0
		if fast != full {
			t.Fatalf("第 %d 组: 快速判定 = %v, 完整拆牌 = %v", i, fast, full)
		}
	}
}

func TestDecomposeMalformed(t *testing.T) {
	var empty Counts
	if got := Decompose(empty); len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("空集合期望一种空拆法, 实际 = %v", got)
	}

	var c Counts
	c[1], c[2] = 1, 1
	if got := Decompose(c); got != nil {
		t.Errorf("张数不是 3 的倍数期望 nil, 实际 = %v", got)
	}

	var five Counts
	five[1] = 5
	five[2] = 1
	if got := Decompose(five); got != nil {
		t.Errorf("超过 4 张期望 nil, 实际 = %v", got)
	}

	if got := DecomposeHand(tiles(t, "123m456m789m1234s")); got != nil {
		t.Errorf("13 张期望 nil, 实际 = %v", got)
	}
}

func TestDecomposeHand(t *testing.T) {
	decs := DecomposeHand(tiles(t, "111222333m789s55p"))
	if len(decs) != 2 {
		t.Fatalf("期望 2 种拆法, 实际 = %d", len(decs))
	}
	for _, d := range decs {
		if d.Pair != 25 {
			t.Errorf("期望将 = 5筒, 实际 = %v", d.Pair)
		}
		if len(d.Groups) != 4 {
			t.Errorf("期望 4 组, 实际 = %d", len(d.Groups))
		}
	}

	// 将牌不能同时计入组
	for _, d := range DecomposeHand(tiles(t, "11123m456s789p999s")) {
		c := groupCounts(d.Groups)
		c[d.Pair] += 2
		if c != CountsOf(tiles(t, "11123m456s789p999s")) {
			t.Errorf("将与组重复使用了牌: %+v", d)
		}
	}
}

func TestDecomposeFourOfAKind(t *testing.T) {
	var c Counts
	c[1], c[2], c[3] = 4, 1, 1
	got := Decompose(c)
	if len(got) != 1 {
		t.Fatalf("四张相同期望去重后 1 种拆法, 实际 = %d", len(got))
	}
}
