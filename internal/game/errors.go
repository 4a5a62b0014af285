package game

import (
	"errors"

	"sudooom.mahjong/internal/game/mahjong/core"
	"sudooom.mahjong/internal/game/mahjong/round"
	apperrors "sudooom.mahjong/pkg/errors"
)

// ErrSnapshotNotFound 快照不存在或已过期
var ErrSnapshotNotFound = errors.New("snapshot not found")

// moveError 引擎拒绝的操作转换为带错误码的业务错误
func moveError(err error) error {
	var gameErr *core.GameError
	switch {
	case errors.Is(err, round.ErrSessionFinished):
		return apperrors.ErrGameFinished.Wrap(err)
	case errors.Is(err, core.ErrInvalidTile):
		return apperrors.ErrInvalidTiles.Wrap(err)
	case errors.As(err, &gameErr):
		return apperrors.ErrInvalidMove.Wrap(err)
	default:
		return apperrors.ErrServerError.Wrap(err)
	}
}
