package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/extractor"
	"github.com/qs3c/repurpose_server/internal/pkg/repurpose"
	"github.com/qs3c/repurpose_server/internal/repository"
)

var (
	ErrURLRequired        = errors.New("URL is required")
	ErrInvalidURL         = errors.New("Invalid URL format. Please provide a valid URL.")
	ErrInvalidPlatform    = errors.New("Unknown platform requested")
	ErrContentTooShort    = errors.New("The extracted content is too short to generate meaningful posts. Please provide a longer video or article.")
	ErrGenerationNotFound = errors.New("Generation not found")
	ErrForbidden          = errors.New("Forbidden")
	ErrExportUnavailable  = errors.New("History export is not configured")
)

// ContentExtractor 把 URL 变成纯文本
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) (*extractor.Content, error)
}

// ContentGenerator 调用模型生成各平台文案
type ContentGenerator interface {
	Generate(ctx context.Context, sourceText, tone string, platforms []string) (*repurpose.Result, error)
}

// ExportStore 历史导出的对象存储，oss.Client 满足该接口
type ExportStore interface {
	ExportKey(userID int64, at time.Time) string
	UploadJSON(objectKey string, data []byte) (string, error)
	GetSignedURL(objectKey string, expireSeconds ...int64) (string, error)
	SignedURLTTL() int64
}

type GenerationConfig struct {
	MinContentLength int
	GenerateTimeout  time.Duration
}

type GenerationService struct {
	genRepo   *repository.GenerationRepository
	credits   *CreditService
	extractor ContentExtractor
	generator ContentGenerator
	export    ExportStore
	cfg       GenerationConfig
	logger    *slog.Logger
}

func NewGenerationService(
	genRepo *repository.GenerationRepository,
	credits *CreditService,
	extractor ContentExtractor,
	generator ContentGenerator,
	export ExportStore,
	cfg GenerationConfig,
	logger *slog.Logger,
) *GenerationService {
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = 100
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{
		genRepo:   genRepo,
		credits:   credits,
		extractor: extractor,
		generator: generator,
		export:    export,
		cfg:       cfg,
		logger:    logger.With("component", "generation"),
	}
}

// Generate 提取内容、扣积分、调用模型并保存结果。扣费之后的任何失败都会退还积分
func (s *GenerationService) Generate(ctx context.Context, ident Identity, req *dto.GenerateRequest) (resp *dto.GenerateResponse, err error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}

	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}
	if !isHTTPURL(rawURL) {
		return nil, ErrInvalidURL
	}
	platforms, err := repurpose.NormalizePlatforms(req.Platforms)
	if err != nil {
		return nil, ErrInvalidPlatform
	}
	tone := repurpose.NormalizeTone(req.Tone)

	// 没有积分时不做提取和模型调用
	balance, err := s.credits.Balance(ident.UserID)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, ErrInsufficientCredits
	}

	content, err := s.extractor.Extract(ctx, rawURL)
	if err != nil {
		s.logger.Info("extraction failed", "user_id", ident.UserID, "url", rawURL, "kind", extractor.KindOf(err), "error", err)
		return nil, err
	}
	if content.Length < s.cfg.MinContentLength {
		return nil, ErrContentTooShort
	}

	debit, err := s.credits.TryDebit(ctx, ident.UserID, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if _, refundErr := s.credits.Refund(ctx, debit); refundErr != nil {
			s.logger.Error("refund after failed generation", "user_id", ident.UserID, "debit_id", debit.ID, "error", refundErr)
		}
	}()

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()

	result, err := s.generator.Generate(genCtx, content.Text, tone, platforms)
	if err != nil {
		s.logger.Warn("generation failed", "user_id", ident.UserID, "kind", repurpose.KindOf(err), "error", err)
		return nil, err
	}

	gen := &model.Generation{
		UserID:    ident.UserID,
		SourceURL: rawURL,
		Tone:      tone,
		Platforms: model.StringArray(result.Platforms),
		Tweets:    model.StringArray(result.Twitter),
		Linkedin:  result.Linkedin,
		Instagram: result.Instagram,
		Facebook:  result.Facebook,
		Email:     result.Email,
	}
	if err = s.genRepo.Create(gen); err != nil {
		return nil, err
	}

	credits := debit.BalanceAfter
	if current, balErr := s.credits.Balance(ident.UserID); balErr == nil {
		credits = current
	}

	s.logger.Info("generation created", "user_id", ident.UserID, "generation_id", gen.ID, "source", content.Source, "platforms", platforms)

	return &dto.GenerateResponse{
		Result:       result.Map(),
		Credits:      credits,
		GenerationID: gen.ID,
	}, nil
}

// List 用户全部历史，新的在前
func (s *GenerationService) List(ident Identity) (*dto.GenerationListResponse, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	gens, err := s.genRepo.ListByUserID(ident.UserID)
	if err != nil {
		return nil, err
	}
	credits, err := s.credits.Balance(ident.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GenerationItem, 0, len(gens))
	for i := range gens {
		items = append(items, toGenerationItem(&gens[i]))
	}
	return &dto.GenerationListResponse{Generations: items, Credits: credits}, nil
}

// Delete 只有所有者可以删除
func (s *GenerationService) Delete(ident Identity, id int64) error {
	if !ident.Valid() {
		return ErrUnauthorized
	}
	gen, err := s.genRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenerationNotFound
		}
		return err
	}
	if gen.UserID != ident.UserID {
		return ErrForbidden
	}
	return s.genRepo.Delete(id)
}

// Export 把全部历史上传到对象存储，返回临时下载地址
func (s *GenerationService) Export(ctx context.Context, ident Identity) (*dto.ExportResponse, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	if s.export == nil {
		return nil, ErrExportUnavailable
	}

	list, err := s.List(ident)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(list.Generations, "", "  ")
	if err != nil {
		return nil, err
	}

	key, err := s.export.UploadJSON(s.export.ExportKey(ident.UserID, time.Now()), data)
	if err != nil {
		return nil, err
	}
	signed, err := s.export.GetSignedURL(key)
	if err != nil {
		return nil, err
	}

	return &dto.ExportResponse{
		URL:       signed,
		Count:     len(list.Generations),
		ExpiresIn: s.export.SignedURLTTL(),
	}, nil
}

func toGenerationItem(gen *model.Generation) dto.GenerationItem {
	item := dto.GenerationItem{
		ID:        gen.ID,
		SourceURL: gen.SourceURL,
		Tone:      gen.Tone,
		Platforms: []string(gen.Platforms),
		Tweets:    []string(gen.Tweets),
		CreatedAt: gen.CreatedAt.Format(time.RFC3339),
	}
	if item.Platforms == nil {
		item.Platforms = []string{}
	}
	if gen.Linkedin != nil {
		item.Linkedin = *gen.Linkedin
	}
	if gen.Instagram != nil {
		item.Instagram = *gen.Instagram
	}
	if gen.Facebook != nil {
		item.Facebook = *gen.Facebook
	}
	if gen.Email != nil {
		item.Email = *gen.Email
	}
	return item
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
