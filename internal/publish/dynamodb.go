package publish

import (
	"context"
	"strconv"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rotisserie/eris"

	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/resilience"
)

const (
	// batchWriteLimit is the DynamoDB BatchWriteItem request cap.
	batchWriteLimit = 25
	// maxUnprocessedRounds bounds resubmission of throttled items per chunk.
	maxUnprocessedRounds = 5

	metaSortKey = "META"
)

// BatchWriter is the subset of the DynamoDB client used by DynamoDB.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoDB writes one item per activity plus a META item per run.
type DynamoDB struct {
	client BatchWriter
	table  string
}

// NewDynamoDB wraps an existing client.
func NewDynamoDB(client BatchWriter, table string) *DynamoDB {
	return &DynamoDB{client: client, table: table}
}

// NewDynamoDBFromConfig builds a DynamoDB publisher from the default AWS credential chain.
func NewDynamoDBFromConfig(ctx context.Context, table, region string) (*DynamoDB, error) {
	if table == "" {
		return nil, eris.New("publish: dynamodb table is required")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "publish: load aws config")
	}
	return NewDynamoDB(dynamodb.NewFromConfig(cfg), table), nil
}

func (p *DynamoDB) Name() string { return "dynamodb:" + p.table }

// RunKey is the partition key shared by all items of a run.
func RunKey(runID string) string { return "RUN#" + runID }

// ActivityKey is the sort key of an activity item.
func ActivityKey(activityID string) string { return "ACT#" + activityID }

func (p *DynamoDB) Publish(ctx context.Context, runID string, payload *model.Payload) error {
	if runID == "" {
		return eris.New("publish: dynamodb needs a run id")
	}
	items, err := Items(runID, payload)
	if err != nil {
		return err
	}

	for start := 0; start < len(items); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(items))
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}
		if err := p.writeChunk(ctx, reqs); err != nil {
			return err
		}
	}
	return nil
}

func (p *DynamoDB) writeChunk(ctx context.Context, reqs []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{p.table: reqs}
	for range maxUnprocessedRounds {
		out, err := p.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return eris.Wrapf(err, "publish: batch write %s", p.table)
		}
		if len(out.UnprocessedItems[p.table]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
	}
	return resilience.NewTransientError(
		eris.Errorf("publish: %d items left unprocessed in %s", len(pending[p.table]), p.table), 0)
}

// Items builds the DynamoDB items for a run: the META item first, then one
// item per activity in output order.
func Items(runID string, payload *model.Payload) ([]map[string]types.AttributeValue, error) {
	meta, err := attributevalue.MarshalMap(payload.Meta)
	if err != nil {
		return nil, eris.Wrap(err, "publish: marshal meta")
	}
	meta["pk"] = &types.AttributeValueMemberS{Value: RunKey(runID)}
	meta["sk"] = &types.AttributeValueMemberS{Value: metaSortKey}

	items := make([]map[string]types.AttributeValue, 0, len(payload.Activities)+1)
	items = append(items, meta)
	for i, a := range payload.Activities {
		item, err := attributevalue.MarshalMap(a)
		if err != nil {
			return nil, eris.Wrapf(err, "publish: marshal activity %s", a.ID)
		}
		item["pk"] = &types.AttributeValueMemberS{Value: RunKey(runID)}
		item["sk"] = &types.AttributeValueMemberS{Value: ActivityKey(a.ID)}
		item["position"] = &types.AttributeValueMemberN{Value: strconv.Itoa(i)}
		item["runId"] = &types.AttributeValueMemberS{Value: runID}
		items = append(items, item)
	}
	return items, nil
}
