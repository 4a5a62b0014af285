package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sudooom.mahjong/internal/game"
	"sudooom.mahjong/internal/model"
)

// Schema 对局记录表结构
const Schema = `
CREATE TABLE IF NOT EXISTS hands (
	id          BIGINT PRIMARY KEY,
	game_id     TEXT NOT NULL,
	game_type   TEXT NOT NULL,
	hand_no     INT NOT NULL,
	dealer      INT NOT NULL,
	round_wind  TEXT NOT NULL,
	exhausted   BOOLEAN NOT NULL,
	winners     JSONB NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	UNIQUE (game_id, hand_no)
);
CREATE TABLE IF NOT EXISTS hand_players (
	hand_id BIGINT NOT NULL REFERENCES hands (id) ON DELETE CASCADE,
	seat    INT NOT NULL,
	kind    TEXT NOT NULL,
	delta   INT NOT NULL,
	score   INT NOT NULL,
	won     BOOLEAN NOT NULL,
	PRIMARY KEY (hand_id, seat)
);
`

// HandRepository 对局记录仓库
type HandRepository struct {
	db *pgxpool.Pool
}

var _ game.HandRecorder = (*HandRepository)(nil)

// NewHandRepository 创建对局记录仓库
func NewHandRepository(db *pgxpool.Pool) *HandRepository {
	return &HandRepository{db: db}
}

// Migrate 建表
func (r *HandRepository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, Schema)
	return err
}

// RecordHand 保存一局记录 (含各座位结果); 同一桌同一局号重复保存时忽略
func (r *HandRepository) RecordHand(ctx context.Context, rec *model.HandRecord) error {
	winners, err := json.Marshal(rec.Winners)
	if err != nil {
		return fmt.Errorf("序列化和牌记录失败: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO hands (id, game_id, game_type, hand_no, dealer, round_wind, exhausted, winners, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, hand_no) DO NOTHING
	`
	tag, err := tx.Exec(ctx, query,
		rec.ID,
		rec.GameID,
		rec.GameType,
		rec.HandNo,
		rec.Dealer,
		rec.RoundWind,
		rec.Exhausted,
		winners,
		rec.FinishedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	query = `
		INSERT INTO hand_players (hand_id, seat, kind, delta, score, won)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, p := range rec.Players {
		if _, err := tx.Exec(ctx, query, rec.ID, p.Seat, p.Kind, p.Delta, p.Score, p.Won); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByGame 某桌的全部记录, 按局号升序
func (r *HandRepository) ListByGame(ctx context.Context, gameID string) ([]*model.HandRecord, error) {
	query := `
		SELECT id, game_id, game_type, hand_no, dealer, round_wind, exhausted, winners, finished_at
		FROM hands WHERE game_id = $1 ORDER BY hand_no
	`

	rows, err := r.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.HandRecord
	byID := make(map[int64]*model.HandRecord)
	for rows.Next() {
		var rec model.HandRecord
		var winners []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.GameID,
			&rec.GameType,
			&rec.HandNo,
			&rec.Dealer,
			&rec.RoundWind,
			&rec.Exhausted,
			&winners,
			&rec.FinishedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(winners, &rec.Winners); err != nil {
			return nil, fmt.Errorf("解析和牌记录失败: %w", err)
		}
		records = append(records, &rec)
		byID[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	query = `
		SELECT p.hand_id, p.seat, p.kind, p.delta, p.score, p.won
		FROM hand_players p JOIN hands h ON h.id = p.hand_id
		WHERE h.game_id = $1 ORDER BY p.hand_id, p.seat
	`
	prow, err := r.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer prow.Close()

	for prow.Next() {
		var handID int64
		var p model.PlayerResult
		if err := prow.Scan(&handID, &p.Seat, &p.Kind, &p.Delta, &p.Score, &p.Won); err != nil {
			return nil, err
		}
		if rec, ok := byID[handID]; ok {
			rec.Players = append(rec.Players, p)
		}
	}
	return records, prow.Err()
}

// Totals 某桌各座位的累计分数变化
func (r *HandRepository) Totals(ctx context.Context, gameID string) (map[int]int, error) {
	query := `
		SELECT p.seat, COALESCE(SUM(p.delta), 0)
		FROM hand_players p JOIN hands h ON h.id = p.hand_id
		WHERE h.game_id = $1 GROUP BY p.seat
	`

	rows, err := r.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int]int)
	for rows.Next() {
		var seat, sum int
		if err := rows.Scan(&seat, &sum); err != nil {
			return nil, err
		}
		totals[seat] = sum
	}
	return totals, rows.Err()
}
