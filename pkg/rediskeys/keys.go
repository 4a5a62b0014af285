package redis

import (
	"fmt"
	"time"
)

const (
	// TableSnapshotKeyPrefix 牌桌快照 Redis Key 前缀
	TableSnapshotKeyPrefix = "mahjong:table:"

	// TableSnapshotKeySuffix 牌桌快照 Redis Key 后缀
	TableSnapshotKeySuffix = ":snapshot"

	// TableIndexKey 有快照的牌桌集合 (ZSet, score 为更新时间)
	TableIndexKey = "mahjong:tables"

	// SnapshotTTL 牌桌快照默认 TTL
	SnapshotTTL = 24 * time.Hour
)

// BuildTableSnapshotKey 构建牌桌快照 Key
// Key: mahjong:table:{tableId}:snapshot
func BuildTableSnapshotKey(tableID string) string {
	return fmt.Sprintf("%s%s%s", TableSnapshotKeyPrefix, tableID, TableSnapshotKeySuffix)
}
