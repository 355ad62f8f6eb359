package scrapers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"dealforge-backend/lib/restyutil"
	"dealforge-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	random "github.com/mazen160/go-random"
)

var debugOutput restyutil.InstrumentOutput
var debugCounter uint64

// SetDebugOutput dumps every fetched page body to the given output.
// Call before any source is constructed; selector drift on a live
// site is much easier to diagnose from the exact HTML that came back.
func SetDebugOutput(output restyutil.InstrumentOutput) {
	debugOutput = output
}

// NewClient builds the shared http client for a source. The
// cloudflare bypass transport and a rotating desktop user agent keep
// listing pages from serving the bot interstitial.
func NewClient(tracerName string) *resty.Client {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", browser.Computer())
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	telemetry.InstrumentResty(client, tracerName)
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if debugOutput != nil {
			id := atomic.AddUint64(&debugCounter, 1)
			debugOutput.Write(
				fmt.Sprintf("%d.html", id),
				fmt.Sprintf("%s %s\n%s\n\n%s", res.Request.Method, res.Request.URL, res.Status(), res.Body()),
			)
		}
		return nil
	})
	return client
}

// Throttle sleeps base +/- jitter between page loads. This is only
// rate limiting to stay under detection thresholds, not scheduling;
// the floor is half a second no matter how small the base.
func Throttle(ctx context.Context, base, jitter time.Duration) {
	delay := base
	if jitter > 0 {
		ms, err := random.IntRange(0, int(2*jitter/time.Millisecond))
		if err == nil {
			delay = base - jitter + time.Duration(ms)*time.Millisecond
		}
	}
	if delay < 500*time.Millisecond {
		delay = 500 * time.Millisecond
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
