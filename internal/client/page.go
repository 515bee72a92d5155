package client

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"

	"github.com/rohits-web03/humandns/internal/models"
	"github.com/rohits-web03/humandns/internal/profile"
)

type PageState int

const (
	StateLoading PageState = iota
	StateLoaded
	StateNotFound
	StateError
)

func (s PageState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateNotFound:
		return "not found"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ProfileAPI is the part of Client a ProfilePage uses.
type ProfileAPI interface {
	Authenticated() bool
	PublicProfile(ctx context.Context, username string) (*PublicProfile, error)
	Me(ctx context.Context) (*models.User, error)
	ListChannels(ctx context.Context) ([]models.Channel, error)
	CreateChannel(ctx context.Context, in ChannelInput) (*models.Channel, error)
	UpdateChannel(ctx context.Context, id uint, in ChannelUpdate) (*models.Channel, error)
	DeleteChannel(ctx context.Context, id uint) error
	CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error)
	UpdateGroup(ctx context.Context, id uint, in GroupUpdate) (*models.Group, error)
	DeleteGroup(ctx context.Context, id uint) error
}

var _ ProfileAPI = (*Client)(nil)

// ProfilePage holds one user's profile as seen by the current viewer.
//
// Load moves it from Loading to Loaded, NotFound or Error. Mutations are only
// applied locally once the server accepted them, and only one may run at a
// time. After Close every late result is dropped.
type ProfilePage struct {
	api      ProfileAPI
	username string

	mu       sync.Mutex
	state    PageState
	loadErr  error
	inline   error
	busy     bool
	closed   bool
	owner    bool
	user     models.User
	channels []models.Channel
	groups   []models.Group
}

func NewProfilePage(api ProfileAPI, username string) *ProfilePage {
	return &ProfilePage{api: api, username: username, state: StateLoading}
}

// Load fetches the profile. When the viewer is the owner the private
// channels are fetched too.
func (p *ProfilePage) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.state = StateLoading
	p.loadErr = nil
	p.mu.Unlock()

	prof, owner, channels, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	switch {
	case errors.Is(err, ErrNotFound):
		p.state = StateNotFound
		return err
	case err != nil:
		p.state = StateError
		p.loadErr = err
		return err
	}
	p.state = StateLoaded
	p.owner = owner
	p.user = prof.User.User()
	p.channels = channels
	p.groups = prof.Groups
	p.inline = nil
	return nil
}

func (p *ProfilePage) fetch(ctx context.Context) (*PublicProfile, bool, []models.Channel, error) {
	prof, err := p.api.PublicProfile(ctx, p.username)
	if err != nil {
		return nil, false, nil, err
	}
	if !p.api.Authenticated() {
		return prof, false, prof.Channels, nil
	}
	me, err := p.api.Me(ctx)
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized:
		// expired or revoked token: render as a visitor
		return prof, false, prof.Channels, nil
	case err != nil:
		return nil, false, nil, err
	case me.ID != prof.User.ID:
		return prof, false, prof.Channels, nil
	}
	all, err := p.api.ListChannels(ctx)
	if err != nil {
		return nil, false, nil, err
	}
	return prof, true, all, nil
}

func (p *ProfilePage) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err is the failure that put the page in the Error state.
func (p *ProfilePage) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// InlineError is the failure of the last mutation, cleared by the next success.
func (p *ProfilePage) InlineError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inline
}

func (p *ProfilePage) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

func (p *ProfilePage) IsOwner() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

// View assembles the current page. ok is false unless the page is Loaded.
func (p *ProfilePage) View() (v profile.View, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateLoaded {
		return profile.View{}, false
	}
	return profile.Assemble(p.user, p.channels, p.groups, p.owner), true
}

// Close marks the page unmounted.
func (p *ProfilePage) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// mutate runs call and, if it succeeds while the page is still open, applies
// its result under the lock.
func (p *ProfilePage) mutate(ctx context.Context, call func(context.Context) (func(), error)) error {
	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return ErrClosed
	case p.state != StateLoaded:
		p.mu.Unlock()
		return ErrNotLoaded
	case !p.owner:
		p.mu.Unlock()
		return ErrReadOnly
	case p.busy:
		p.mu.Unlock()
		return ErrBusy
	}
	p.busy = true
	p.mu.Unlock()

	apply, err := call(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
	if p.closed {
		return ErrClosed
	}
	if err != nil {
		p.inline = err
		return err
	}
	p.inline = nil
	apply()
	return nil
}

func (p *ProfilePage) AddChannel(ctx context.Context, in ChannelInput) error {
	return p.mutate(ctx, func(ctx context.Context) (func(), error) {
		ch, err := p.api.CreateChannel(ctx, in)
		if err != nil {
			return nil, err
		}
		return func() { p.channels = append(p.channels, *ch) }, nil
	})
}

func (p *ProfilePage) UpdateChannel(ctx context.Context, id uint, in ChannelUpdate) error {
	return p.mutate(ctx, func(ctx context.Context) (func(), error) {
		ch, err := p.api.UpdateChannel(ctx, id, in)
		if err != nil {
			return nil, err
		}
		return func() { p.channels = replaceByID(p.channels, *ch, func(c models.Channel) uint { return c.ID }) }, nil
	})
}

func (p *ProfilePage) DeleteChannel(ctx context.Context, id uint) error {
	return p.mutate(ctx, func(ctx context.Context) (func(), error) {
		if err := p.api.DeleteChannel(ctx, id); err != nil {
			return nil, err
		}
		return func() {
			p.channels = slices.DeleteFunc(p.channels, func(c models.Channel) bool { return c.ID == id })
		}, nil
	})
}

func (p *ProfilePage) AddGroup(ctx context.Context, in GroupInput) error {
	return p.mutate(ctx, func(ctx context.Context) (func(), error) {
		g, err := p.api.CreateGroup(ctx, in)
		if err != nil {
			return nil, err
		}
		return func() { p.groups = append(p.groups, *g) }, nil
	})
}

func (p *ProfilePage) UpdateGroup(ctx context.Context, id uint, in GroupUpdate) error {
	return p.mutate(ctx, func(ctx context.Context) (func(), error) {
		g, err := p.api.UpdateGroup(ctx, id, in)
		if err != nil {
			return nil, err
		}
		return func() { p.groups = replaceByID(p.groups, *g, func(g models.Group) uint { return g.ID }) }, nil
	})
}

// DeleteGroup also ungroups the group's channels locally, as the server does.
func (p *ProfilePage) DeleteGroup(ctx context.Context, id uint) error {
	return p.mutate(ctx, func(ctx context.Context) (func(), error) {
		if err := p.api.DeleteGroup(ctx, id); err != nil {
			return nil, err
		}
		return func() {
			p.groups = slices.DeleteFunc(p.groups, func(g models.Group) bool { return g.ID == id })
			for i := range p.channels {
				if gid := p.channels[i].GroupID; gid != nil && *gid == id {
					p.channels[i].GroupID = nil
				}
			}
		}, nil
	})
}

func replaceByID[T any](items []T, item T, id func(T) uint) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
