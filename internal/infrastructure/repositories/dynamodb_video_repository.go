package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// counterItemID is the reserved partition key of the id counter; real ids start at 1.
const counterItemID = 0

// DynamoDBVideoRepository expects a table whose partition key is the number attribute "id".
type DynamoDBVideoRepository struct {
	client    *dynamodb.Client
	tableName string
}

type dynamoVideoItem struct {
	ID       int64    `dynamodbav:"id"`
	Title    string   `dynamodbav:"title"`
	Duration int64    `dynamodbav:"duration"`
	DataURL  string   `dynamodbav:"data_url"`
	Likers   []string `dynamodbav:"likers,stringset,omitempty"`
}

var _ repositories.VideoRepository = (*DynamoDBVideoRepository)(nil)

func NewDynamoDBVideoRepository(ctx context.Context, tableName, region string) (*DynamoDBVideoRepository, error) {
	if tableName == "" {
		return nil, fmt.Errorf("DynamoDB table name cannot be empty")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &DynamoDBVideoRepository{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

func idKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

func (r *DynamoDBVideoRepository) NextID(ctx context.Context) (int64, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(counterItemID),
		UpdateExpression:          aws.String("ADD #c :one"),
		ExpressionAttributeNames:  map[string]string{"#c": "counter"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	var next struct {
		Counter int64 `dynamodbav:"counter"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &next); err != nil {
		return 0, fmt.Errorf("failed to unmarshal counter: %w", err)
	}
	return next.Counter, nil
}

func (r *DynamoDBVideoRepository) Save(ctx context.Context, video *entities.Video) error {
	values, err := attributevalue.MarshalMap(map[string]any{
		":t": video.Title,
		":d": video.Duration,
		":u": video.DataURL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	// SET alanları günceller, likers özniteliğine dokunmaz
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(video.ID),
		UpdateExpression:          aws.String("SET title = :t, #d = :d, data_url = :u"),
		ExpressionAttributeNames:  map[string]string{"#d": "duration"},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      idKey(counterItemID),
		UpdateExpression:         aws.String("SET #c = :id"),
		ConditionExpression:      aws.String("attribute_not_exists(#c) OR #c < :id"),
		ExpressionAttributeNames: map[string]string{"#c": "counter"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberN{Value: strconv.FormatInt(video.ID, 10)},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if err != nil && !errors.As(err, &ccf) {
		return fmt.Errorf("failed to bump counter: %w", err)
	}
	return nil
}

func (r *DynamoDBVideoRepository) FindByID(ctx context.Context, id int64) (*entities.Video, error) {
	if id == counterItemID {
		return nil, repositories.ErrVideoNotFound
	}
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if out.Item == nil {
		return nil, repositories.ErrVideoNotFound
	}
	var item dynamoVideoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	v := item.toEntity()
	return &v, nil
}

func (r *DynamoDBVideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrVideoNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *DynamoDBVideoRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	p := dynamodb.NewScanPaginator(r.client, r.videoScan(types.SelectCount))
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to scan table: %w", err)
		}
		total += int64(page.Count)
	}
	return total, nil
}

func (r *DynamoDBVideoRepository) FindAll(ctx context.Context) ([]entities.Video, error) {
	return r.filter(ctx, func(*entities.Video) bool { return true })
}

func (r *DynamoDBVideoRepository) FindByName(ctx context.Context, title string) ([]entities.Video, error) {
	return r.filter(ctx, func(v *entities.Video) bool { return v.Title == title })
}

func (r *DynamoDBVideoRepository) FindByDurationLessThan(ctx context.Context, duration int64) ([]entities.Video, error) {
	return r.filter(ctx, func(v *entities.Video) bool { return v.Duration < duration })
}

func (r *DynamoDBVideoRepository) AddLiker(ctx context.Context, id int64, user string) error {
	return r.updateLikers(ctx, id, user, "ADD", "attribute_exists(id) AND NOT contains(likers, :user)", repositories.ErrAlreadyLiked)
}

func (r *DynamoDBVideoRepository) RemoveLiker(ctx context.Context, id int64, user string) error {
	return r.updateLikers(ctx, id, user, "DELETE", "attribute_exists(id) AND contains(likers, :user)", repositories.ErrNotLiked)
}

// updateLikers applies a set ADD/DELETE guarded by a condition; on a failed check the
// old item (if any) tells a missing video apart from a rejected toggle.
func (r *DynamoDBVideoRepository) updateLikers(ctx context.Context, id int64, user, action, condition string, rejected error) error {
	if id == counterItemID {
		return repositories.ErrVideoNotFound
	}
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(id),
		UpdateExpression:    aws.String(action + " likers :set"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":set":  &types.AttributeValueMemberSS{Value: []string{user}},
			":user": &types.AttributeValueMemberS{Value: user},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		if len(ccf.Item) == 0 {
			return repositories.ErrVideoNotFound
		}
		return rejected
	}
	return fmt.Errorf("failed to update likers: %w", err)
}

func (r *DynamoDBVideoRepository) Likers(ctx context.Context, id int64) ([]string, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.Likers, nil
}

// The client holds no connections that need closing.
func (r *DynamoDBVideoRepository) Close() error { return nil }

func (r *DynamoDBVideoRepository) videoScan(sel types.Select) *dynamodb.ScanInput {
	return &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("id > :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":zero": &types.AttributeValueMemberN{Value: "0"}},
		Select:                    sel,
		ConsistentRead:            aws.Bool(true),
	}
}

func (r *DynamoDBVideoRepository) filter(ctx context.Context, keep func(*entities.Video) bool) ([]entities.Video, error) {
	videos := make([]entities.Video, 0)
	p := dynamodb.NewScanPaginator(r.client, r.videoScan(types.SelectAllAttributes))
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		var items []dynamoVideoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		for _, item := range items {
			v := item.toEntity()
			if keep(&v) {
				videos = append(videos, v)
			}
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos, nil
}

func (i dynamoVideoItem) toEntity() entities.Video {
	likers := append([]string{}, i.Likers...)
	sort.Strings(likers)
	return entities.Video{
		ID:       i.ID,
		Title:    i.Title,
		Duration: i.Duration,
		DataURL:  i.DataURL,
		Likers:   likers,
	}
}
