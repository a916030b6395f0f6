package job

import (
	"Hitoiki/internal/pkg/consts"
	"Hitoiki/internal/pkg/logger"
	"Hitoiki/internal/pkg/redis"
	"Hitoiki/internal/pkg/util"
	"Hitoiki/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

// EngagementRepairJob 补齐投稿时没建全的计数投影
type EngagementRepairJob struct {
	ratingRepo repository.RatingRepo
}

func NewEngagementRepairJob(ratingRepo repository.RatingRepo) *EngagementRepairJob {
	return &EngagementRepairJob{ratingRepo: ratingRepo}
}

func (s *EngagementRepairJob) Run() {
	traceID := "job-repair-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	tempSet, err := redis.GetSet(ctx, consts.EngagementRepairKey)
	if err != nil {
		if !errors.Is(err, redis.ErrNotInitialized) {
			log.ErrorContext(ctx, "get repair set error", "err", err)
		}
		return
	}
	if len(tempSet) == 0 {
		return
	}

	articleIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert repair set error", "err", err)
		return
	}

	log.InfoContext(ctx, "start engagement repair", "count", len(articleIDs))

	for _, aid := range articleIDs {
		if err = s.ratingRepo.EnsureRatings(ctx, aid); err != nil {
			log.ErrorContext(ctx, "repair engagement error", "article_id", aid, "err", err)
			continue
		}
		_ = redis.SRem(ctx, consts.EngagementRepairKey, strconv.FormatUint(aid, 10))
	}
}
