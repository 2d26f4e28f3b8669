package documentstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/dataset"
)

// Client is an explicit handle on the borrower document store. Lifecycle is
// owned by the caller; there is no process-wide instance.
type Client struct {
	client   *mongo.Client
	database string
}

// Connect dials the document store and verifies the connection.
func Connect(ctx context.Context, url, database string) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connecting to document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging document store: %w", err)
	}
	logger.Log.WithField("database", database).Info("Connected to document store")
	return &Client{client: client, database: database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// ExportCollection reads every document of the collection into a frame with
// a stable column set (first-seen key order across documents). The internal
// _id column is stripped and the sentinel "na" normalizes to the empty cell.
func (c *Client) ExportCollection(ctx context.Context, collection string) (*dataset.Frame, error) {
	return c.ExportCollectionFrom(ctx, c.database, collection)
}

// ExportCollectionFrom is ExportCollection with a database override.
func (c *Client) ExportCollectionFrom(ctx context.Context, database, collection string) (*dataset.Frame, error) {
	coll := c.client.Database(database).Collection(collection)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading collection %s: %w", collection, err)
	}

	var columns []string
	seen := make(map[string]int)
	for _, doc := range docs {
		for _, elem := range doc {
			if elem.Key == "_id" {
				continue
			}
			if _, ok := seen[elem.Key]; !ok {
				seen[elem.Key] = len(columns)
				columns = append(columns, elem.Key)
			}
		}
	}

	frame := dataset.NewFrame(columns)
	for _, doc := range docs {
		row := make([]string, len(columns))
		for _, elem := range doc {
			if elem.Key == "_id" {
				continue
			}
			row[seen[elem.Key]] = cellText(elem.Value)
		}
		if err := frame.AppendRow(row); err != nil {
			return nil, fmt.Errorf("building frame for %s: %w", collection, err)
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"collection": collection,
		"records":    frame.NumRows(),
	}).Info("Exported collection")
	return frame, nil
}

func cellText(value interface{}) string {
	var text string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		text = v
	case int32:
		text = fmt.Sprintf("%d", v)
	case int64:
		text = fmt.Sprintf("%d", v)
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			text = "Yes"
		} else {
			text = "No"
		}
	default:
		text = fmt.Sprintf("%v", v)
	}
	if strings.EqualFold(strings.TrimSpace(text), "na") {
		return ""
	}
	return text
}
