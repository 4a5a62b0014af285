package round

import (
	"math/rand"

	"sudooom.mahjong/internal/game/mahjong/core"
)

// HandsPerWind 每一圈打的局数, 每局结束庄家轮换到下家
const HandsPerWind = 4

// ErrSessionFinished 四圈已打完
var ErrSessionFinished = core.NewGameError("SESSION_FINISHED", "整场已结束")

// ErrNoHand 还没有开局
var ErrNoHand = core.NewGameError("NO_HAND", "当前没有进行中的一局")

// HandSummary 一局结束后的摘要
type HandSummary struct {
	HandNo    int          `json:"handNo"`
	Dealer    int          `json:"dealer"`
	RoundWind core.TileKey `json:"roundWind"`
	Winners   []WinRecord  `json:"winners"`
	Exhausted bool         `json:"exhausted"`
	Deltas    []int        `json:"deltas"`
	Scores    []int        `json:"scores"`
}

// Session 多局累计: 分数, 庄家, 圈风
type Session struct {
	RuleName   string        `json:"ruleName"`
	Scores     []int         `json:"scores"`
	Dealer     int           `json:"dealer"`
	RoundWind  core.TileKey  `json:"roundWind"`
	HandNo     int           `json:"handNo"` // 下一局的局号, 从 1 开始
	HandInWind int           `json:"handInWind"`
	Finished   bool          `json:"finished"`
	Hands      []HandSummary `json:"hands"`
}

// NewSession 东风圈第一局, 座位 0 坐庄
func (e *Engine) NewSession() *Session {
	scores := make([]int, Players)
	for i := range scores {
		scores[i] = e.config.StartingScore
	}
	return &Session{
		RuleName:  e.rules.Name(),
		Scores:    scores,
		RoundWind: core.KeyEast,
		HandNo:    1,
	}
}

// StartHand 洗牌并开始下一局
func (e *Engine) StartHand(sess *Session, rng *rand.Rand) (*RoundState, error) {
	if sess.Finished {
		return nil, ErrSessionFinished
	}
	deck := core.Shuffle(core.CreateDeck(e.rules), rng)
	return e.NewRound(deck, sess.Dealer, sess.RoundWind, sess.Scores)
}

// FinishHand 把一局的结果计入累计, 并轮换庄家与圈风
func (e *Engine) FinishHand(sess *Session, s *RoundState) (*HandSummary, error) {
	if !s.Phase.Terminal() {
		return nil, core.ErrInvalidPhase.WithContext("phase", s.Phase)
	}
	if sess.Finished {
		return nil, ErrSessionFinished
	}

	sum := HandSummary{
		HandNo:    sess.HandNo,
		Dealer:    sess.Dealer,
		RoundWind: sess.RoundWind,
		Winners:   append([]WinRecord(nil), s.Winners...),
		Exhausted: s.Phase == PhaseExhausted,
		Deltas:    make([]int, Players),
		Scores:    make([]int, Players),
	}
	for i, p := range s.Players {
		sum.Deltas[i] = p.Score - sess.Scores[i]
		sum.Scores[i] = p.Score
	}
	sess.Scores = append([]int(nil), sum.Scores...)
	sess.Hands = append(sess.Hands, sum)

	sess.HandNo++
	sess.Dealer = (sess.Dealer + 1) % Players
	sess.HandInWind++
	if sess.HandInWind >= HandsPerWind {
		sess.HandInWind = 0
		if sess.RoundWind == core.KeyNorth {
			sess.Finished = true
		} else {
			sess.RoundWind++
		}
	}
	return &sum, nil
}

// Clone 深拷贝
func (sess *Session) Clone() *Session {
	cp := *sess
	cp.Scores = append([]int(nil), sess.Scores...)
	cp.Hands = append([]HandSummary(nil), sess.Hands...)
	return &cp
}
