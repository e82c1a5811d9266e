package es

import (
	"Atelier/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

// PainterSearchFilter 画师搜索过滤条件
type PainterSearchFilter struct {
	Style    string
	Level    string
	PriceMax uint
}

type PainterRepo interface {
	SearchPainters(ctx context.Context, keyword string, filter PainterSearchFilter, from, size int) ([]*PainterES, error)
	GetTopRated(ctx context.Context, from, size int) ([]*PainterES, error)
	IndexPainter(ctx context.Context, painter *PainterES, version int64) error
	DeletePainter(ctx context.Context, id uint64) error
	UpdatePainterRating(ctx context.Context, id uint64, rating float64, reviewCount int) error
}

type PainterRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPainterRepo(client *elasticsearch.TypedClient) PainterRepo {
	return &PainterRepoImpl{client: client}
}

// SearchPainters 关键词 + 过滤条件搜索已通过审核的画师
func (s *PainterRepoImpl) SearchPainters(ctx context.Context, keyword string, filter PainterSearchFilter, from, size int) ([]*PainterES, error) {
	if from >= MaxSearchDepth {
		return []*PainterES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Filter: []types.Query{},
	}

	if keyword != "" {
		boolQuery.Should = []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  keyword,
					Fields: []string{"nickname^3", "bio", "styles^2"},
					Boost:  util.PtrFloat32(2.0),
				},
			},
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     keyword,
					Fields:    []string{"nickname", "bio"},
					Fuzziness: util.PtrStr("AUTO"),
					Boost:     util.PtrFloat32(0.5),
				},
			},
		}
		boolQuery.MinimumShouldMatch = 1
	}

	if filter.Style != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{
				"styles": {Value: filter.Style},
			},
		})
	}
	if filter.Level != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{
				"level": {Value: filter.Level},
			},
		})
	}
	if filter.PriceMax > 0 {
		maxPrice := types.Float64(filter.PriceMax)
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Range: map[string]types.RangeQuery{
				"price_min": types.NumberRangeQuery{Lte: &maxPrice},
			},
		})
	}

	req := s.client.Search().
		Index(PainterIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	// 无关键词时按评分排序，有关键词时按相关度
	if keyword == "" {
		req.Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"rating": {Order: &sortorder.Desc},
		}})
	}

	return s.executeSearch(ctx, req)
}

// GetTopRated 获取评分最高的画师列表
func (s *PainterRepoImpl) GetTopRated(ctx context.Context, from, size int) ([]*PainterES, error) {
	req := s.client.Search().
		Index(PainterIndex).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"rating": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *PainterRepoImpl) IndexPainter(ctx context.Context, painter *PainterES, version int64) error {
	docID := strconv.FormatUint(painter.ID, 10)

	_, err := s.client.Index(PainterIndex).
		Id(docID).
		Document(painter).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *PainterRepoImpl) DeletePainter(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(PainterIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// UpdatePainterRating 评分聚合任务回写评分与评价数
func (s *PainterRepoImpl) UpdatePainterRating(ctx context.Context, id uint64, rating float64, reviewCount int) error {
	docID := strconv.FormatUint(id, 10)

	ratingJSON, _ := json.Marshal(rating)
	countJSON, _ := json.Marshal(reviewCount)

	params := map[string]json.RawMessage{
		"rating":       json.RawMessage(ratingJSON),
		"review_count": json.RawMessage(countJSON),
	}

	scriptSource := "ctx._source.rating = params.rating; ctx._source.review_count = params.review_count;"

	_, err := s.client.Update(PainterIndex, docID).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *PainterRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PainterES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PainterES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var painter PainterES
		if err = json.Unmarshal(hit.Source_, &painter); err != nil {
			continue
		}
		results = append(results, &painter)
	}
	return results, nil
}
