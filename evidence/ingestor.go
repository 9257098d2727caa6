package evidence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/party-cms-api/blobstore"
	"github.com/linesmerrill/party-cms-api/metrics"
	"github.com/linesmerrill/party-cms-api/models"
)

// Folders evidence is uploaded to
const (
	PhotoFolder    = "disciplinary/photos"
	ImageFolder    = "disciplinary/images"
	DocumentFolder = "disciplinary/evidence"
)

// Field describes where a list of evidence goes and how large each payload may be
type Field struct {
	Folder   string
	MaxBytes int
}

// Ledger records every uploaded blob so unattached ones can be swept later.
// databases.UploadDatabase satisfies it.
type Ledger interface {
	InsertOne(ctx context.Context, upload models.Upload) error
}

// Options tune an Ingestor. Zero values get defaults.
type Options struct {
	Timeout     time.Duration
	Concurrency int
	Metrics     *metrics.Metrics
	Logger      *zap.SugaredLogger
	Now         func() time.Time
	NewName     func() string
}

// Ingestor resolves evidence strings to stored references
type Ingestor struct {
	store       blobstore.Store
	ledger      Ledger
	timeout     time.Duration
	concurrency int
	metrics     *metrics.Metrics
	logger      *zap.SugaredLogger
	now         func() time.Time
	newName     func() string
}

// DefaultUploadTimeout bounds a single upload when Options.Timeout is unset
const DefaultUploadTimeout = 30 * time.Second

// New returns an Ingestor uploading to store and recording uploads in ledger
func New(store blobstore.Store, ledger Ledger, opts Options) *Ingestor {
	in := &Ingestor{
		store:       store,
		ledger:      ledger,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         opts.Now,
		newName:     opts.NewName,
	}
	if in.timeout <= 0 {
		in.timeout = DefaultUploadTimeout
	}
	if in.logger == nil {
		in.logger = zap.NewNop().Sugar()
	}
	if in.now == nil {
		in.now = time.Now
	}
	if in.newName == nil {
		in.newName = func() string { return uuid.New().String() }
	}
	return in
}

// Ingest returns the references in raw followed by the URLs of the uploaded payloads, each
// group in input order. Every payload is validated before any upload starts.
func (in *Ingestor) Ingest(ctx context.Context, raw []string, field Field) ([]string, error) {
	refs, uploaded, err := in.ingest(ctx, raw, field)
	if err != nil {
		return nil, err
	}
	return append(refs, uploaded...), nil
}

// IngestNew uploads the payloads in raw and returns only their URLs. References are dropped.
func (in *Ingestor) IngestNew(ctx context.Context, raw []string, field Field) ([]string, error) {
	_, uploaded, err := in.ingest(ctx, raw, field)
	return uploaded, err
}

// Validate decodes and size checks every payload in raw without uploading anything
func (in *Ingestor) Validate(raw []string, field Field) error {
	_, _, err := prepare(raw, field)
	return err
}

type decoded struct {
	index int
	data  []byte
}

func prepare(raw []string, field Field) ([]string, []decoded, error) {
	refs := []string{}
	var payloads []decoded
	for _, item := range Classify(raw) {
		if item.Kind == Reference {
			refs = append(refs, item.Value)
			continue
		}
		b, err := Decode(item.Value)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s item %d", field.Folder, item.Index)
		}
		if field.MaxBytes > 0 && len(b) > field.MaxBytes {
			return nil, nil, errors.Wrapf(ErrPayloadTooLarge, "%s item %d is %d bytes, limit is %d",
				field.Folder, item.Index, len(b), field.MaxBytes)
		}
		payloads = append(payloads, decoded{index: item.Index, data: b})
	}
	return refs, payloads, nil
}

func (in *Ingestor) ingest(ctx context.Context, raw []string, field Field) ([]string, []string, error) {
	refs, payloads, err := prepare(raw, field)
	if err != nil {
		return nil, nil, err
	}

	uploaded, err := in.upload(ctx, payloads, field.Folder)
	if err != nil {
		return nil, nil, err
	}
	return refs, uploaded, nil
}

func (in *Ingestor) upload(ctx context.Context, payloads []decoded, folder string) ([]string, error) {
	urls := make([]string, len(payloads))
	if len(payloads) == 0 {
		return urls, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if in.concurrency > 0 {
		g.SetLimit(in.concurrency)
	}
	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			obj, err := in.uploadOne(gctx, p, folder)
			if err != nil {
				return err
			}
			urls[i] = obj.URL
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (in *Ingestor) uploadOne(ctx context.Context, p decoded, folder string) (blobstore.Object, error) {
	uctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	start := time.Now()
	obj, err := in.store.Upload(uctx, p.data, in.newName(), folder)
	in.metrics.ObserveUpload(folder, time.Since(start), err)
	if err != nil {
		if errors.Is(uctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return blobstore.Object{}, errors.Wrapf(ErrUploadTimeout, "%s item %d after %s", folder, p.index, in.timeout)
		}
		return blobstore.Object{}, errors.Wrapf(ErrUploadFailed, "%s item %d: %v", folder, p.index, err)
	}

	if in.ledger != nil {
		// The ledger write must outlive a cancelled sibling upload.
		lctx, lcancel := context.WithTimeout(context.WithoutCancel(ctx), in.timeout)
		defer lcancel()
		lerr := in.ledger.InsertOne(lctx, models.Upload{
			URL:          obj.URL,
			PublicID:     obj.PublicID,
			ResourceType: obj.ResourceType,
			Backend:      in.store.Backend(),
			Folder:       folder,
			CreatedAt:    primitive.NewDateTimeFromTime(in.now()),
		})
		if lerr != nil {
			in.logger.Errorw("failed to record upload in ledger", "url", obj.URL, "publicId", obj.PublicID, "error", lerr)
		}
	}
	return obj, nil
}
