package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/imaging"
	"github.com/spec-kit/lostfound-service/internal/mirror"
	"github.com/spec-kit/lostfound-service/internal/repository"
	"github.com/spec-kit/lostfound-service/internal/stats"
	"github.com/spec-kit/lostfound-service/internal/storage"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// Collections names the remote collections a DataContext works against.
type Collections struct {
	Categories repository.CategoryRepository
	Items      repository.ItemRepository
	Messages   repository.MessageRepository
	Profiles   repository.ProfileRepository
}

// DataContextDependencies bundles collaborators for a DataContext.
type DataContextDependencies struct {
	Collections Collections
	Store       *storage.ObjectStore
	ItemBucket  string
	Dispatcher  events.Dispatcher
	Recorder    mirror.Recorder
	Logger      *zap.Logger
}

// LoadReport records the outcome of each collection's initial list. A
// skipped collection has no error.
type LoadReport struct {
	Categories error
	Items      error
	Messages   error
}

// Err joins the individual failures.
func (r LoadReport) Err() error {
	return errors.Join(r.Categories, r.Items, r.Messages)
}

// DataContext is the role-aware entry point to the three mirrored
// collections of one actor. Admin-only operations fail with FORBIDDEN
// before any collection is touched.
type DataContext struct {
	categories *mirror.Repository[domain.Category, domain.CategoryPatch]
	items      *mirror.Repository[domain.Item, domain.ItemPatch]
	messages   *mirror.Repository[domain.Message, domain.MessagePatch]
	profiles   repository.ProfileRepository
	store      *storage.ObjectStore
	bucket     string
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu      sync.RWMutex
	actor   *domain.User
	ready   bool
	report  LoadReport
	loadGen uint64

	statsMu  sync.Mutex
	statsKey stats.Key
	statsVal domain.DashboardStats
	statsOK  bool
}

// NewDataContext builds a façade for actor. A nil actor is anonymous and
// may only submit messages.
func NewDataContext(actor *domain.User, deps DataContextDependencies) *DataContext {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bucket := deps.ItemBucket
	if bucket == "" {
		bucket = "items"
	}
	return &DataContext{
		categories: mirror.New[domain.Category, domain.CategoryPatch](deps.Collections.Categories, mirror.Options[domain.Category, domain.CategoryPatch]{
			Name:          "categories",
			ID:            func(c domain.Category) string { return c.ID },
			Validate:      domain.Category.Validate,
			ValidatePatch: domain.CategoryPatch.Validate,
			Recorder:      deps.Recorder,
		}),
		items: mirror.New[domain.Item, domain.ItemPatch](deps.Collections.Items, mirror.Options[domain.Item, domain.ItemPatch]{
			Name:          "items",
			ID:            func(i domain.Item) string { return i.ID },
			Validate:      domain.Item.Validate,
			ValidatePatch: domain.ItemPatch.Validate,
			Recorder:      deps.Recorder,
		}),
		messages: mirror.New[domain.Message, domain.MessagePatch](deps.Collections.Messages, mirror.Options[domain.Message, domain.MessagePatch]{
			Name:     "messages",
			ID:       func(m domain.Message) string { return m.ID },
			Validate: domain.Message.Validate,
			Recorder: deps.Recorder,
		}),
		profiles:   deps.Collections.Profiles,
		store:      deps.Store,
		bucket:     bucket,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		actor:      cloneUser(actor),
	}
}

// Actor returns the actor the façade is scoped to.
func (d *DataContext) Actor() *domain.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneUser(d.actor)
}

// SetActor rescopes the façade. A different identity or role clears every
// mirror and reloads for the new actor; a nil actor is only cleared.
// Profile edits of the same actor are taken over without a reload.
func (d *DataContext) SetActor(ctx context.Context, actor *domain.User) LoadReport {
	d.mu.Lock()
	if domain.SameActor(d.actor, actor) {
		d.actor = cloneUser(actor)
		report := d.report
		d.mu.Unlock()
		return report
	}
	d.actor = cloneUser(actor)
	d.ready = false
	d.report = LoadReport{}
	d.loadGen++
	d.mu.Unlock()

	d.categories.Reset()
	d.items.Reset()
	d.messages.Reset()

	if actor == nil {
		return LoadReport{}
	}
	d.logger.Debug("actor changed, reloading", zap.String("user_id", actor.ID), zap.String("role", string(actor.Role)))
	return d.Load(ctx)
}

// Load lists every collection visible to the actor concurrently. One
// failing list does not stop the others; Ready reports true once all have
// settled. Messages are only listed for admins.
func (d *DataContext) Load(ctx context.Context) LoadReport {
	d.mu.Lock()
	d.loadGen++
	gen := d.loadGen
	actor := d.actor
	d.ready = false
	d.mu.Unlock()

	var report LoadReport
	if actor != nil {
		var g errgroup.Group
		g.Go(func() error {
			_, report.Categories = d.categories.List(ctx)
			return nil
		})
		g.Go(func() error {
			_, report.Items = d.items.List(ctx)
			return nil
		})
		if actor.IsAdmin() {
			g.Go(func() error {
				_, report.Messages = d.messages.List(ctx)
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := report.Err(); err != nil {
		d.logger.Warn("initial load incomplete", zap.Error(err))
	}

	d.mu.Lock()
	if d.loadGen == gen {
		d.ready = true
		d.report = report
	}
	d.mu.Unlock()
	return report
}

// Ready reports whether the latest load has settled.
func (d *DataContext) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ready
}

// LastLoad returns the report of the latest settled load.
func (d *DataContext) LastLoad() LoadReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.report
}

// Categories returns the mirrored categories, newest first.
func (d *DataContext) Categories() []domain.Category {
	return d.categories.Snapshot()
}

// ActiveCategories returns the categories offered when posting an item.
func (d *DataContext) ActiveCategories() []domain.Category {
	return domain.ActiveCategories(d.categories.Snapshot())
}

// CategoryLabel resolves ref against the mirror.
func (d *DataContext) CategoryLabel(ref domain.CategoryRef) string {
	return domain.CategoryLabel(d.categories.Snapshot(), ref)
}

// RefreshCategories relists categories.
func (d *DataContext) RefreshCategories(ctx context.Context) ([]domain.Category, error) {
	if _, err := d.requireActor(); err != nil {
		return nil, err
	}
	return d.categories.List(ctx)
}

// CreateCategory adds a category. Admin only.
func (d *DataContext) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if _, err := d.requireAdmin("create category"); err != nil {
		return nil, err
	}
	return d.categories.Create(ctx, category)
}

// UpdateCategory patches a category. Admin only. Deactivating a category
// leaves the items that reference it untouched.
func (d *DataContext) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if _, err := d.requireAdmin("update category"); err != nil {
		return nil, err
	}
	return d.categories.UpdateByID(ctx, id, patch)
}

// DeleteCategory removes a category. Admin only. Items keep their
// reference and render it as Unknown.
func (d *DataContext) DeleteCategory(ctx context.Context, id string) error {
	if _, err := d.requireAdmin("delete category"); err != nil {
		return err
	}
	return d.categories.DeleteByID(ctx, id)
}

// Items returns the mirrored items matching filter, newest first.
func (d *DataContext) Items(filter domain.ItemFilter) []domain.Item {
	return domain.FilterItems(d.items.Snapshot(), filter)
}

// Item returns one mirrored item.
func (d *DataContext) Item(id string) (domain.Item, error) {
	item, ok := d.items.Get(id)
	if !ok {
		return domain.Item{}, apperrors.NewNotFound("items", map[string]any{"id": id})
	}
	return item, nil
}

// RefreshItems relists items.
func (d *DataContext) RefreshItems(ctx context.Context) ([]domain.Item, error) {
	if _, err := d.requireActor(); err != nil {
		return nil, err
	}
	return d.items.List(ctx)
}

// ItemInput is a new item with an optional photo.
type ItemInput struct {
	Item  domain.Item
	Photo []byte
}

// CreateItem posts an item on behalf of the actor. A photo is normalized
// and uploaded before the record is written.
func (d *DataContext) CreateItem(ctx context.Context, input ItemInput) (*domain.Item, error) {
	actor, err := d.requireActor()
	if err != nil {
		return nil, err
	}

	item := input.Item
	item.CreatedBy = actor.Ref()
	item.PreviousStatus = nil
	if strings.TrimSpace(item.ContactEmail) == "" {
		item.ContactEmail = actor.Email
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if len(input.Photo) > 0 {
		url, err := d.uploadPhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		item.Image = &url
	}

	created, err := d.items.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	d.publish(ctx, events.NewEvent(events.EventItemPosted, created.ID, actor, events.ItemPostedPayload{
		Title:    created.Title,
		Status:   created.Status,
		Category: created.Category,
	}))
	return created, nil
}

// UpdateItem patches an item. Only its creator or an admin may do so.
func (d *DataContext) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	item, err := d.ownedItem(id, "update item")
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && *patch.Status == domain.ItemStatusClaimed &&
		item.Status != domain.ItemStatusClaimed && patch.PreviousStatus == nil {
		prior := item.Status
		patch.PreviousStatus = &prior
	}
	return d.items.UpdateByID(ctx, id, patch)
}

// DeleteItem removes an item. Only its creator or an admin may do so.
func (d *DataContext) DeleteItem(ctx context.Context, id string) error {
	if _, err := d.ownedItem(id, "delete item"); err != nil {
		return err
	}
	return d.items.DeleteByID(ctx, id)
}

// ToggleClaim marks a lost or found item claimed, or returns a claimed item
// to the status it held before it was claimed (found when unknown).
func (d *DataContext) ToggleClaim(ctx context.Context, id string) (*domain.Item, error) {
	item, err := d.ownedItem(id, "toggle claim")
	if err != nil {
		return nil, err
	}
	updated, err := d.items.UpdateByID(ctx, id, domain.ClaimToggle(item))
	if err != nil {
		return nil, err
	}
	d.publish(ctx, events.NewEvent(events.EventItemClaimed, updated.ID, d.Actor(), events.ItemClaimedPayload{
		Title:     updated.Title,
		OldStatus: item.Status,
		NewStatus: updated.Status,
	}))
	return updated, nil
}

// Messages returns the mirrored messages. Admin only.
func (d *DataContext) Messages() ([]domain.Message, error) {
	if _, err := d.requireAdmin("read messages"); err != nil {
		return nil, err
	}
	return d.messages.Snapshot(), nil
}

// RefreshMessages relists messages. Admin only.
func (d *DataContext) RefreshMessages(ctx context.Context) ([]domain.Message, error) {
	if _, err := d.requireAdmin("read messages"); err != nil {
		return nil, err
	}
	return d.messages.List(ctx)
}

// CreateMessage submits a contact message. Any actor may do so, including
// an anonymous one; only an admin's mirror receives the new record.
func (d *DataContext) CreateMessage(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	actor := d.Actor()
	msg.IsRead = false

	var (
		created *domain.Message
		err     error
	)
	if actor.IsAdmin() {
		created, err = d.messages.Create(ctx, msg)
	} else {
		created, err = d.messages.Submit(ctx, msg)
	}
	if err != nil {
		return nil, err
	}
	d.publish(ctx, events.NewEvent(events.EventMessageReceived, created.ID, actor, events.MessageReceivedPayload{
		From:     created.Email,
		Subject:  created.Subject,
		Feedback: created.IsFeedback(),
	}))
	return created, nil
}

// FeedbackInput is a feedback form submission. Name and email default to
// the actor's profile.
type FeedbackInput struct {
	Name  string
	Email string
	Body  string
}

// SubmitFeedback stores feedback as a message with the feedback subject.
func (d *DataContext) SubmitFeedback(ctx context.Context, input FeedbackInput) (*domain.Message, error) {
	actor := d.Actor()
	var role domain.Role
	if actor != nil {
		role = actor.Role
		if strings.TrimSpace(input.Name) == "" {
			input.Name = actor.Name
		}
		if strings.TrimSpace(input.Email) == "" {
			input.Email = actor.Email
		}
	}
	return d.CreateMessage(ctx, domain.Message{
		Name:    input.Name,
		Email:   input.Email,
		Subject: domain.FeedbackSubject(role),
		Body:    input.Body,
	})
}

// MarkMessageRead sets a message's read flag. Admin only.
func (d *DataContext) MarkMessageRead(ctx context.Context, id string, read bool) (*domain.Message, error) {
	if _, err := d.requireAdmin("update message"); err != nil {
		return nil, err
	}
	return d.messages.UpdateByID(ctx, id, domain.MessagePatch{IsRead: &read})
}

// DeleteMessage removes a message. Admin only.
func (d *DataContext) DeleteMessage(ctx context.Context, id string) error {
	if _, err := d.requireAdmin("delete message"); err != nil {
		return err
	}
	return d.messages.DeleteByID(ctx, id)
}

// ListUsers returns every profile, newest first. Admin only.
func (d *DataContext) ListUsers(ctx context.Context) ([]domain.User, error) {
	if _, err := d.requireAdmin("list users"); err != nil {
		return nil, err
	}
	users, err := d.profiles.List(ctx)
	if err != nil {
		return nil, apperrors.NewFetchError("profiles", err)
	}
	return users, nil
}

// Stats derives dashboard counters from the mirrors. The result is reused
// until one of the mirrors changes.
func (d *DataContext) Stats() domain.DashboardStats {
	key := stats.Key{
		Categories: d.categories.Version(),
		Items:      d.items.Version(),
		Messages:   d.messages.Version(),
	}

	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	if d.statsOK && d.statsKey == key {
		return d.statsVal
	}
	d.statsVal = stats.Compute(d.items.Snapshot(), d.categories.Snapshot(), d.messages.Snapshot())
	d.statsKey = key
	d.statsOK = true
	return d.statsVal
}

// RecentActivity is the dashboard's latest items and messages.
type RecentActivity struct {
	Items    []domain.Item
	Messages []domain.Message
}

// Recent returns up to n of the newest mirrored items and, for admins,
// messages, both ordered by date. Messages stay nil for other actors.
func (d *DataContext) Recent(n int) RecentActivity {
	out := RecentActivity{Items: stats.RecentItems(d.items.Snapshot(), n)}
	if d.Actor().IsAdmin() {
		out.Messages = stats.RecentMessages(d.messages.Snapshot(), n)
	}
	return out
}

func (d *DataContext) requireActor() (*domain.User, error) {
	actor := d.Actor()
	if actor == nil {
		return nil, apperrors.NewUnauthorized("sign in required")
	}
	return actor, nil
}

func (d *DataContext) requireAdmin(op string) (*domain.User, error) {
	actor, err := d.requireActor()
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden(fmt.Sprintf("%s requires admin role", op))
	}
	return actor, nil
}

// ownedItem returns the mirrored item when the actor created it or is an
// admin. Nothing is sent to the remote collection on failure.
func (d *DataContext) ownedItem(id, op string) (domain.Item, error) {
	actor, err := d.requireActor()
	if err != nil {
		return domain.Item{}, err
	}
	item, ok := d.items.Get(id)
	if !ok {
		return domain.Item{}, apperrors.NewNotFound("items", map[string]any{"id": id})
	}
	if !actor.IsAdmin() && !item.OwnedBy(actor) {
		return domain.Item{}, apperrors.NewForbidden(fmt.Sprintf("%s requires the item's creator or an admin", op))
	}
	return item, nil
}

func (d *DataContext) uploadPhoto(ctx context.Context, data []byte) (string, error) {
	if d.store == nil {
		return "", apperrors.NewStorageError(errors.New("object storage not configured"))
	}
	photo, err := imaging.Normalize(data)
	if err != nil {
		return "", err
	}
	path := "items/" + uuid.NewString() + imaging.Extension
	if err := d.store.Upload(ctx, d.bucket, path, photo.Data, imaging.OutputType); err != nil {
		return "", err
	}
	return d.store.PublicURL(d.bucket, path), nil
}

func (d *DataContext) publish(ctx context.Context, event events.Event) {
	if d.dispatcher == nil {
		return
	}
	if err := d.dispatcher.Publish(ctx, event); err != nil {
		d.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}
