package job

import (
	"Hitoiki/internal/pkg/consts"
	"Hitoiki/internal/pkg/logger"
	"Hitoiki/internal/pkg/redis"
	"Hitoiki/internal/pkg/util"
	"Hitoiki/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

// RatingRollupJob 每日把日榜增量折算进终身累计。
// 折算用减法回收日榜，不清零，折算窗口内新到的计数不会丢。
type RatingRollupJob struct {
	ratingRepo repository.RatingRepo
}

func NewRatingRollupJob(ratingRepo repository.RatingRepo) *RatingRollupJob {
	return &RatingRollupJob{ratingRepo: ratingRepo}
}

func (s *RatingRollupJob) Run() {
	traceID := "job-rollup-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 先改名再消费，折算期间新产生的脏标记落到新的集合里
	processingKey := consts.ArticleDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.ArticleDirtyKey, processingKey); err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get dirty set error", "err", err)
		return
	}

	articleIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert dirty set error", "err", err)
		return
	}

	log.InfoContext(ctx, "start rating rollup", "count", len(articleIDs))

	successCount := 0
	for _, aid := range articleIDs {
		if err = s.rollupOne(ctx, aid); err != nil {
			log.ErrorContext(ctx, "rollup article error", "article_id", aid, "err", err)
			// 失败的放回脏集合，下轮重试
			_ = redis.SAdd(ctx, consts.ArticleDirtyKey, strconv.FormatUint(aid, 10))
			continue
		}
		successCount++
	}

	_ = redis.DeleteKey(ctx, processingKey)
	log.InfoContext(ctx, "rating rollup finished", "success", successCount, "total", len(articleIDs))
}

func (s *RatingRollupJob) rollupOne(ctx context.Context, articleID uint64) error {
	daily, err := s.ratingRepo.GetDailyRating(ctx, articleID)
	if err != nil {
		return err
	}
	if daily.AccessCount == 0 && daily.LikeCount == 0 {
		return nil
	}

	if err = s.ratingRepo.FoldIntoAggregate(ctx, articleID, daily.AccessCount, daily.LikeCount); err != nil {
		return err
	}
	if err = s.ratingRepo.SubtractDaily(ctx, articleID, daily.AccessCount, daily.LikeCount); err != nil {
		return err
	}

	idStr := strconv.FormatUint(articleID, 10)
	_ = redis.DeleteKey(ctx, consts.ArticleAccessKey+idStr)
	_ = redis.DeleteKey(ctx, consts.ArticleLikeKey+idStr)
	return nil
}
