package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediamgr/internal/core/post"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gofrs/uuid"
)

const (
	DefaultOwnerIndex = "owner_id-index"

	batchGetLimit = 100
)

// API is the subset of *dynamodb.Client the repository uses.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// item is the stored document shape. Timestamps are RFC3339 strings.
type item struct {
	ID            string     `dynamodbav:"id"`
	OwnerID       string     `dynamodbav:"owner_id"`
	Theme         string     `dynamodbav:"theme"`
	Text          string     `dynamodbav:"text"`
	ImageURL      string     `dynamodbav:"image_url,omitempty"`
	VideoURL      string     `dynamodbav:"video_url,omitempty"`
	Status        string     `dynamodbav:"status"`
	CreatedAt     time.Time  `dynamodbav:"created_at"`
	ScheduledTime *time.Time `dynamodbav:"scheduled_time,omitempty"`
}

// PostRepositoryDynamo stores posts as DynamoDB documents keyed by id,
// with a global secondary index on owner_id for owner queries.
type PostRepositoryDynamo struct {
	Client     API
	Table      string
	OwnerIndex string
}

func NewPostRepositoryDynamo(client API, table, ownerIndex string) *PostRepositoryDynamo {
	if ownerIndex == "" {
		ownerIndex = DefaultOwnerIndex
	}
	return &PostRepositoryDynamo{Client: client, Table: table, OwnerIndex: ownerIndex}
}

func (repo *PostRepositoryDynamo) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	created := *p
	created.ID = id

	av, err := attributevalue.MarshalMap(toItem(&created))
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal post: %w", err)
	}

	_, err = repo.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(repo.Table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] put post: %w", err)
	}
	return &created, nil
}

func (repo *PostRepositoryDynamo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	out, err := repo.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(repo.Table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] get post: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, post.ErrNotFound
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("[DynamoDB] unmarshal post: %w", err)
	}
	return fromItem(it)
}

// FindByOwner lists the owner's ids from the GSI, then re-reads the items with a
// consistent BatchGetItem. GSI reads are eventually consistent, so the status
// filter is applied to the re-read items, never to the index.
func (repo *PostRepositoryDynamo) FindByOwner(ctx context.Context, ownerID string, status post.Status) ([]*post.Post, error) {
	ids, err := repo.ownerIDs(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	posts := []*post.Post{}
	for start := 0; start < len(ids); start += batchGetLimit {
		end := min(start+batchGetLimit, len(ids))
		items, err := repo.batchGet(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.OwnerID != ownerID {
				continue
			}
			if status != "" && post.Status(it.Status) != status {
				continue
			}
			p, err := fromItem(it)
			if err != nil {
				return nil, err
			}
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (repo *PostRepositoryDynamo) ownerIDs(ctx context.Context, ownerID string) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(repo.Table),
		IndexName:              aws.String(repo.OwnerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ProjectionExpression:   aws.String("id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
	}

	var ids []string
	paginator := dynamodb.NewQueryPaginator(repo.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] query posts: %w", err)
		}

		var keys []struct {
			ID string `dynamodbav:"id"`
		}
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &keys); err != nil {
			return nil, fmt.Errorf("[DynamoDB] unmarshal post ids: %w", err)
		}
		for _, k := range keys {
			ids = append(ids, k.ID)
		}
	}
	return ids, nil
}

// batchGet returns the items for ids in the same order, skipping ids that no longer exist.
func (repo *PostRepositoryDynamo) batchGet(ctx context.Context, ids []string) ([]item, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, key(id))
	}

	byID := make(map[string]item, len(ids))
	request := map[string]types.KeysAndAttributes{
		repo.Table: {Keys: keys, ConsistentRead: aws.Bool(true)},
	}
	for len(request) > 0 {
		out, err := repo.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] batch get posts: %w", err)
		}

		var items []item
		if err := attributevalue.UnmarshalListOfMaps(out.Responses[repo.Table], &items); err != nil {
			return nil, fmt.Errorf("[DynamoDB] unmarshal posts: %w", err)
		}
		for _, it := range items {
			byID[it.ID] = it
		}
		request = out.UnprocessedKeys
	}

	ordered := make([]item, 0, len(byID))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			ordered = append(ordered, it)
		}
	}
	return ordered, nil
}

func (repo *PostRepositoryDynamo) UpdateFields(ctx context.Context, id string, patch post.Patch) error {
	set := ""
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	if patch.Status != nil {
		set = "#status = :status"
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(*patch.Status)}
	}
	if patch.ScheduledTime != nil {
		if set != "" {
			set += ", "
		}
		set += "scheduled_time = :scheduled"
		values[":scheduled"] = &types.AttributeValueMemberS{Value: patch.ScheduledTime.UTC().Format(time.RFC3339Nano)}
	}
	if set == "" {
		return nil
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(repo.Table),
		Key:                       key(id),
		UpdateExpression:          aws.String("SET " + set),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	_, err := repo.Client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return post.ErrNotFound
		}
		return fmt.Errorf("[DynamoDB] update post: %w", err)
	}
	return nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func toItem(p *post.Post) item {
	return item{
		ID:            p.ID.String(),
		OwnerID:       p.OwnerID,
		Theme:         p.Theme,
		Text:          p.Text,
		ImageURL:      p.ImageURL,
		VideoURL:      p.VideoURL,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt.UTC(),
		ScheduledTime: p.ScheduledTime,
	}
}

func fromItem(it item) (*post.Post, error) {
	id, err := uuid.FromString(it.ID)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] invalid post id %q: %w", it.ID, err)
	}
	return &post.Post{
		ID:            id,
		OwnerID:       it.OwnerID,
		Theme:         it.Theme,
		Text:          it.Text,
		ImageURL:      it.ImageURL,
		VideoURL:      it.VideoURL,
		Status:        post.Status(it.Status),
		CreatedAt:     it.CreatedAt,
		ScheduledTime: it.ScheduledTime,
	}, nil
}
