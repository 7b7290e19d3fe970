// Package dynamostore implements the document store contract on DynamoDB.
// Each entity container maps to one table keyed by the string attribute
// "id". List queries run as PartiQL statements.
package dynamostore

import (
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/shopfront/shopfront/pkg/entity"
	apperrors "github.com/shopfront/shopfront/pkg/errors"
	"github.com/shopfront/shopfront/pkg/query"
	"github.com/shopfront/shopfront/pkg/store"
)

// Store is a DynamoDB-backed store.Store.
type Store struct {
	client *dynamodb.Client
	tables map[string]string
}

// New creates a store over the given client. tables maps container names to
// table names; a container without a mapping uses its own name as the table.
func New(client *dynamodb.Client, tables map[string]string) *Store {
	return &Store{client: client, tables: tables}
}

// Container implements store.Store.
func (s *Store) Container(name string) store.Container {
	table := name
	if t, ok := s.tables[name]; ok && t != "" {
		table = t
	}
	return &container{client: s.client, name: name, table: table}
}

type container struct {
	client *dynamodb.Client
	name   string
	table  string
}

func (c *container) Create(ctx context.Context, doc entity.Document) (entity.Document, error) {
	item, err := attributevalue.MarshalMap(map[string]any(doc))
	if err != nil {
		return nil, apperrors.NewStoreError("create", c.name, err)
	}
	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.NewStoreError("create", c.name, err)
	}
	return doc, nil
}

func (c *container) Read(ctx context.Context, id string) (entity.Document, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       key(id),
	})
	if err != nil {
		return nil, apperrors.NewStoreError("read", c.name, err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return unmarshalDocument(c.name, out.Item)
}

func (c *container) Upsert(ctx context.Context, doc entity.Document) (entity.Document, error) {
	item, err := attributevalue.MarshalMap(map[string]any(doc))
	if err != nil {
		return nil, apperrors.NewStoreError("upsert", c.name, err)
	}
	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return nil, apperrors.NewStoreError("upsert", c.name, err)
	}
	return doc, nil
}

func (c *container) Delete(ctx context.Context, id string) error {
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(c.table),
		Key:                 key(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewStoreError("delete", c.name, err)
	}
	return nil
}

// Query executes the spec as a PartiQL statement. PartiQL cannot ORDER BY on
// a filtered scan, so the statement runs without its ORDER BY clause and the
// fetched documents are sorted here before being returned.
func (c *container) Query(ctx context.Context, spec query.Spec) ([]entity.Document, error) {
	input := &dynamodb.ExecuteStatementInput{
		Statement: aws.String(spec.StatementWithoutOrderBy()),
	}
	if len(spec.Params) > 0 {
		params := make([]types.AttributeValue, 0, len(spec.Params))
		for _, p := range spec.Params {
			av, err := attributevalue.Marshal(p.Value)
			if err != nil {
				return nil, apperrors.NewStoreError("query", c.name, err)
			}
			params = append(params, av)
		}
		input.Parameters = params
	}

	var docs []entity.Document
	for {
		out, err := c.client.ExecuteStatement(ctx, input)
		if err != nil {
			return nil, apperrors.NewStoreError("query", c.name, err)
		}
		for _, item := range out.Items {
			doc, err := unmarshalDocument(c.name, item)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	if spec.SortField != "" {
		sortDocuments(docs, spec.SortField, spec.SortDesc)
	}
	return docs, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func unmarshalDocument(name string, item map[string]types.AttributeValue) (entity.Document, error) {
	var doc map[string]any
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, apperrors.NewStoreError("unmarshal", name, err)
	}
	return entity.Document(doc), nil
}

// sortDocuments orders by the string form of the sort field. Timestamps are
// ISO-8601, so string order is chronological order.
func sortDocuments(docs []entity.Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i][field].(string)
		b, _ := docs[j][field].(string)
		if desc {
			return a > b
		}
		return a < b
	})
}
