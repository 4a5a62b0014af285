// Package snowflake 对局记录的 ID: 41 位毫秒时间戳, 10 位节点号, 12 位序号
//
// 同一节点生成的 ID 单调递增, 写入 hands 表后可直接按 ID 排序代替按时间排序。
package snowflake

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Epoch 时间戳起点 2024-01-01 00:00:00 UTC, 毫秒
const Epoch int64 = 1704067200000

const (
	nodeBits = 10
	seqBits  = 12

	// MaxNode 最大节点号
	MaxNode = 1<<nodeBits - 1
	seqMask = 1<<seqBits - 1
)

// ID 对局记录 ID
type ID int64

// Parse 解析十进制字符串形式的 ID
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("无效的 ID %q", s)
	}
	return ID(v), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Int64 数据库主键用
func (id ID) Int64() int64 { return int64(id) }

// Parts 拆出相对 Epoch 的毫秒数, 节点号, 序号
func (id ID) Parts() (ms, node, seq int64) {
	v := int64(id)
	return v >> (nodeBits + seqBits), v >> seqBits & MaxNode, v & seqMask
}

// Time 生成时间
func (id ID) Time() time.Time {
	ms, _, _ := id.Parts()
	return time.UnixMilli(ms + Epoch)
}

// Node 生成该 ID 的节点号
func (id ID) Node() int64 {
	_, node, _ := id.Parts()
	return node
}

// Node 一个节点上的 ID 生成器, 并发安全
type Node struct {
	id  int64
	now func() int64

	mu   sync.Mutex
	last int64 // 上一个 ID 的毫秒数
	seq  int64
}

// NewNode 节点号范围 0 到 MaxNode
func NewNode(id int64) (*Node, error) {
	return newNode(id, func() int64 { return time.Now().UnixMilli() })
}

func newNode(id int64, now func() int64) (*Node, error) {
	if id < 0 || id > MaxNode {
		return nil, fmt.Errorf("节点号 %d 超出范围 0-%d", id, MaxNode)
	}
	return &Node{id: id, now: now}, nil
}

// Generate 生成下一个 ID
// 时钟回拨时继续使用上一个毫秒; 同一毫秒序号用尽时借用下一毫秒, 不阻塞
func (n *Node) Generate() ID {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms := max(n.now()-Epoch, n.last)
	if ms == n.last {
		n.seq = (n.seq + 1) & seqMask
		if n.seq == 0 {
			ms++
		}
	} else {
		n.seq = 0
	}
	n.last = ms
	return ID(ms<<(nodeBits+seqBits) | n.id<<seqBits | n.seq)
}
