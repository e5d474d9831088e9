package alert

import (
	"context"
	"maps"
	"net"
	"strconv"

	"github.com/code19m/errx"
	sentinelpb "github.com/code19m/sentinel/pb"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// sentinelProvider sends reports over a gRPC connection it owns.
type sentinelProvider struct {
	cfg            Config
	serviceName    string
	serviceVersion string
	client         sentinelpb.SentinelServiceClient
	conn           *grpc.ClientConn
}

// newSentinelProvider creates the client. The connection is established lazily by gRPC.
func newSentinelProvider(cfg Config, serviceName, serviceVersion string) (*sentinelProvider, error) {
	conn, err := grpc.NewClient(
		net.JoinHostPort(cfg.SentinelHost, strconv.Itoa(cfg.SentinelPort)),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &sentinelProvider{
		cfg:            cfg,
		serviceName:    serviceName,
		serviceVersion: serviceVersion,
		client:         sentinelpb.NewSentinelServiceClient(conn),
		conn:           conn,
	}, nil
}

// SendError reports to Sentinel within cfg.SendTimeout. Cancellation of ctx is ignored
// so reports of failed requests still go out.
func (sp *sentinelProvider) SendError(
	ctx context.Context,
	errCode, msg, operation string,
	details map[string]string,
) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sp.cfg.SendTimeout)
	defer cancel()

	d := make(map[string]string, len(details)+1)
	maps.Copy(d, details)
	d["service_version"] = sp.serviceVersion

	_, err := sp.client.SendError(ctx, &sentinelpb.ErrorInfo{
		Code:      errCode,
		Message:   msg,
		Service:   sp.serviceName,
		Operation: operation,
		Details:   d,
	})
	return errx.Wrap(err)
}

func (sp *sentinelProvider) Close() error {
	return errx.Wrap(sp.conn.Close())
}
