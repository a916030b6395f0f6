package handler

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/pkg/consts"
	"Hitoiki/internal/pkg/response"
	"Hitoiki/internal/pkg/util"
	"Hitoiki/internal/service"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleSvc service.ArticleService
}

func NewArticleHandler(articleSvc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleSvc: articleSvc,
	}
}

// Submit 投稿。表单字段和媒体文件走同一个 multipart 请求
func (s *ArticleHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.ArticleCreateDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	files := form.File["media"]
	if len(files) > consts.MaxMediaPerArticle {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	assets, closers, err := openAssets(files)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}()

	result, err := s.articleSvc.SubmitArticle(c.Request.Context(), userID, &req, assets)
	if err != nil {
		// 部分成功：文章已落库，投影由修复任务补齐
		if errors.Is(err, service.ErrEngagementInitIncomplete) {
			response.FailWithData(c, service.PartialSuccess, err.Error(), result)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (s *ArticleHandler) GetArticle(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetString("user_id")

	article, err := s.articleSvc.GetArticle(c.Request.Context(), articleID, userID, isModerator(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) ListPublished(c *gin.Context) {
	cursor := c.Query("cursor")
	category, _ := strconv.Atoi(c.DefaultQuery("category", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))

	list, err := s.articleSvc.ListPublished(c.Request.Context(), cursor, category, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ArticleHandler) Search(c *gin.Context) {
	var req dto.ArticleSearchDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.articleSvc.SearchArticles(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListUnpublished 审核队列，仅审核员可见
func (s *ArticleHandler) ListUnpublished(c *gin.Context) {
	list, err := s.articleSvc.ListUnpublished(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ArticleHandler) Delete(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetString("user_id")

	if err = s.articleSvc.DeleteArticle(c.Request.Context(), articleID, userID, isModerator(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// openAssets 打开上传文件并嗅探真实类型，拒绝图片和视频以外的文件。
// 没有附带媒体时返回 nil 切片。
func openAssets(files []*multipart.FileHeader) ([]*service.MediaAsset, []multipart.File, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	assets := make([]*service.MediaAsset, 0, len(files))
	closers := make([]multipart.File, 0, len(files))

	for _, file := range files {
		reader, err := file.Open()
		if err != nil {
			return nil, closers, service.ErrParamInvalid
		}
		closers = append(closers, reader)

		contentType, err := util.GetSafeContentType(reader)
		if err != nil {
			return nil, closers, service.ErrParamInvalid
		}
		if !strings.HasPrefix(contentType, consts.MimePrefixImage) &&
			!strings.HasPrefix(contentType, consts.MimePrefixVideo) {
			return nil, closers, service.ErrParamInvalid
		}

		assets = append(assets, &service.MediaAsset{
			FileName: file.Filename,
			MimeType: contentType,
			Data:     reader,
		})
	}
	return assets, closers, nil
}
