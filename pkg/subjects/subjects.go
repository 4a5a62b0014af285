package nats

import "strconv"

// NATS Subject 常量定义
const (
	// SubjectTablePrefix 牌桌相关 Subject 前缀
	// 完整格式: mahjong.table.{table_id}.events / mahjong.table.{table_id}.seat.{seat}
	SubjectTablePrefix = "mahjong.table."

	// SubjectEventsSuffix 公开事件, 私有事件的牌面被隐去
	SubjectEventsSuffix = ".events"

	// SubjectSeatInfix 某个座位的私有事件, 带牌面
	SubjectSeatInfix = ".seat."

	// SubjectMovesSuffix 客户端提交的操作
	SubjectMovesSuffix = ".moves"

	// SubjectAllMoves 订阅所有牌桌的操作
	SubjectAllMoves = SubjectTablePrefix + "*" + SubjectMovesSuffix

	// QueueGroupMahjong 麻将服务队列组名称
	QueueGroupMahjong = "mahjong-group"
)

// BuildTableEventsSubject 构建牌桌公开事件 Subject
func BuildTableEventsSubject(tableID string) string {
	return SubjectTablePrefix + tableID + SubjectEventsSuffix
}

// BuildSeatSubject 构建座位私有事件 Subject
func BuildSeatSubject(tableID string, seat int) string {
	return SubjectTablePrefix + tableID + SubjectSeatInfix + strconv.Itoa(seat)
}

// BuildTableMovesSubject 构建牌桌操作 Subject
func BuildTableMovesSubject(tableID string) string {
	return SubjectTablePrefix + tableID + SubjectMovesSuffix
}

// ParseTableID 从 mahjong.table.{table_id}.xxx 中取出桌号
func ParseTableID(subject string) (string, bool) {
	if len(subject) <= len(SubjectTablePrefix) || subject[:len(SubjectTablePrefix)] != SubjectTablePrefix {
		return "", false
	}
	rest := subject[len(SubjectTablePrefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '.' {
			if i == 0 {
				return "", false
			}
			return rest[:i], true
		}
	}
	return "", false
}
