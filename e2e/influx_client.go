package e2e

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// DecisionReader reads price decisions back from InfluxDB.
type DecisionReader struct {
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

func NewDecisionReader(url, org, bucket, token string) *DecisionReader {
	c := influxdb2.NewClient(url, token)
	return &DecisionReader{bucket: bucket, client: c, query: c.QueryAPI(org)}
}

// Ready reports an error until the server answers and the init bucket exists.
func (r *DecisionReader) Ready(ctx context.Context) error {
	ok, err := r.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("influx not ready")
	}
	if _, err := r.client.BucketsAPI().FindBucketByName(ctx, r.bucket); err != nil {
		return fmt.Errorf("find bucket %s: %w", r.bucket, err)
	}
	return nil
}

// AppliedPrices returns the applied_price values written within window,
// in time order.
func (r *DecisionReader) AppliedPrices(ctx context.Context, window time.Duration) ([]float64, error) {
	flux := fmt.Sprintf(`from(bucket:%q) |> range(start:-%ds)
  |> filter(fn: (r) => r._measurement == "price_decision" and r._field == "applied_price")
  |> group() |> sort(columns: ["_time"])`, r.bucket, int(window.Seconds()))
	res, err := r.query.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	var out []float64
	for res.Next() {
		v, ok := res.Record().Value().(float64)
		if !ok {
			return nil, fmt.Errorf("unexpected value %v", res.Record().Value())
		}
		out = append(out, v)
	}
	return out, res.Err()
}

func (r *DecisionReader) Close() { r.client.Close() }
