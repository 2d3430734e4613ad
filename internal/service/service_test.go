package service

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"foresttrack/internal/geo"
	"foresttrack/internal/ids"
	"foresttrack/internal/kv"
	"foresttrack/internal/models"
	"foresttrack/internal/network"
	"foresttrack/internal/repository"
	"foresttrack/internal/security"
	"foresttrack/internal/storage"
)

var fastParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func fastHash(pw string) (string, error) {
	return security.HashPasswordWithParams(pw, fastParams)
}

type fixture struct {
	store  kv.Store
	status *network.Status
	app    *App
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := ids.NewClockAt(func() time.Time { return base })
	store := kv.NewMemoryStore()
	status := network.NewStatus(true)

	app := NewApp(store, storage.InlineStore{}, status, Options{
		StrictReferences: strict,
		Clock:            clock,
		HashPassword:     fastHash,
	}, zerolog.Nop())
	return &fixture{store: store, status: status, app: app}
}

func (f *fixture) register(t *testing.T, name, email string) models.User {
	t.Helper()
	user, err := f.app.Accounts.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "pine-cone",
		Role:     models.UserRoleForester,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func TestRegisterSetsSessionAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	user := f.register(t, "Ana", "ana@forest.io")
	if user.Password == "pine-cone" || !security.IsHashed(user.Password) {
		t.Fatalf("password stored in clear: %q", user.Password)
	}

	current, err := f.app.Accounts.Current(ctx)
	if err != nil || current.ID != user.ID {
		t.Fatalf("expected session for %s, got %+v %v", user.ID, current, err)
	}

	_, err = f.app.Accounts.Register(ctx, RegisterInput{Name: "Other", Email: "ana@forest.io", Password: "x"})
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}

	users, err := repository.NewUserRepository(f.store).Load(ctx)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("duplicate registration changed users: %d", len(users))
	}
}

func TestRegisterRoleHandling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	user, err := f.app.Accounts.Register(ctx, RegisterInput{Name: "Bo", Email: "bo@forest.io", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != models.UserRoleForester {
		t.Fatalf("expected default forester role, got %q", user.Role)
	}

	_, err = f.app.Accounts.Register(ctx, RegisterInput{Name: "Cy", Email: "cy@forest.io", Password: "pw", Role: "ranger"})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	user := f.register(t, "Ana", "ana@forest.io")

	if err := f.app.Accounts.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.app.Accounts.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected no session after logout, got %v", err)
	}

	if _, err := f.app.Accounts.Login(ctx, "ana@forest.io", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.app.Accounts.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("failed login must not set a session, got %v", err)
	}

	logged, err := f.app.Accounts.Login(ctx, "ana@forest.io", "pine-cone")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged in as %s, want %s", logged.ID, user.ID)
	}
}

func TestLoginAcceptsPlaintextRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	legacy := []models.User{{ID: "1", Name: "Old", Email: "old@forest.io", Password: "secret", Role: models.UserRoleAnalyst}}
	if err := repository.NewUserRepository(f.store).Save(ctx, legacy); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	user, err := f.app.Accounts.Login(ctx, "old@forest.io", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Role != models.UserRoleAnalyst {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestPlaintextPasswordStorage(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	app := NewApp(store, storage.InlineStore{}, network.NewStatus(true), Options{HashPassword: security.KeepPlaintext}, zerolog.Nop())

	if _, err := app.Accounts.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@forest.io", Password: "pine-cone"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	users, _ := repository.NewUserRepository(store).Load(ctx)
	if len(users) != 1 || users[0].Password != "pine-cone" {
		t.Fatalf("password not stored verbatim: %+v", users)
	}

	if err := app.Accounts.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := app.Accounts.Login(ctx, "ana@forest.io", "pine-cone"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	if _, err := f.app.Accounts.UpdateProfile(ctx, models.ProfilePatch{}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	f.register(t, "Ana", "ana@forest.io")
	bio := "Tracks beetles"
	role := models.UserRoleSupervisor
	updated, err := f.app.Accounts.UpdateProfile(ctx, models.ProfilePatch{Bio: &bio, Role: &role})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != bio || updated.Role != role || updated.Name != "Ana" {
		t.Fatalf("unexpected merge result %+v", updated)
	}

	users, _ := repository.NewUserRepository(f.store).Load(ctx)
	if len(users) != 1 || !reflect.DeepEqual(users[0], updated) {
		t.Fatalf("users list not updated: %+v", users)
	}
	session, _ := repository.NewSessionRepository(f.store).Get(ctx)
	if !reflect.DeepEqual(session, updated) {
		t.Fatalf("session not updated: %+v", session)
	}
}

type recordingPhotos struct {
	calls int
}

func (r *recordingPhotos) Store(_ context.Context, _ string, photos []string) ([]string, error) {
	r.calls++
	out := make([]string, len(photos))
	for i := range photos {
		out[i] = "https://photos.local/p" + strconv.Itoa(i)
	}
	return out, nil
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	photos := &recordingPhotos{}
	app := NewApp(store, photos, network.NewStatus(true), Options{HashPassword: fastHash}, zerolog.Nop())

	for _, email := range []string{"ana@forest.io", "ben@forest.io"} {
		if _, err := app.Accounts.Register(ctx, RegisterInput{Name: email, Email: email, Password: "pw"}); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
	}
	before, _ := repository.NewUserRepository(store).Load(ctx)

	taken := "ana@forest.io"
	picture := "data:image/png;base64,AAAA"
	_, err := app.Accounts.UpdateProfile(ctx, models.ProfilePatch{Email: &taken, ProfilePicture: &picture})
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
	if photos.calls != 0 {
		t.Fatalf("profile picture uploaded for a rejected update")
	}

	after, _ := repository.NewUserRepository(store).Load(ctx)
	if !reflect.DeepEqual(after, before) {
		t.Fatalf("users changed by rejected update:\n got %+v\nwant %+v", after, before)
	}
	session, _ := app.Accounts.Current(ctx)
	if session.Email != "ben@forest.io" {
		t.Fatalf("session email changed to %q", session.Email)
	}

	own := "ben@forest.io"
	updated, err := app.Accounts.UpdateProfile(ctx, models.ProfilePatch{Email: &own, ProfilePicture: &picture})
	if err != nil {
		t.Fatalf("keeping own email: %v", err)
	}
	if photos.calls != 1 || updated.ProfilePicture != "https://photos.local/p0" {
		t.Fatalf("unexpected picture handling: calls=%d picture=%q", photos.calls, updated.ProfilePicture)
	}
}

func TestCreateObservationCapturesConnectivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.register(t, "Ana", "ana@forest.io")

	online, err := f.app.Field.CreateObservation(ctx, ObservationInput{TreeID: "1", Notes: "fine"})
	if err != nil {
		t.Fatalf("create online: %v", err)
	}
	if !online.Synced || online.Health != models.HealthHealthy || online.Location != models.LocationUnavailable {
		t.Fatalf("unexpected online observation %+v", online)
	}

	f.status.Set(false)
	offline, err := f.app.Field.CreateObservation(ctx, ObservationInput{
		TreeID: "2",
		Health: models.HealthAtRisk,
		Photos: []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"},
		UseGPS: true,
		Fix:    &geo.Fix{Lat: 45.5, Lng: -122.25},
	})
	if err != nil {
		t.Fatalf("create offline: %v", err)
	}
	if offline.Synced {
		t.Fatal("observation created offline must not be synced")
	}
	if offline.Location != "45.500000, -122.250000" {
		t.Fatalf("unexpected location %q", offline.Location)
	}
	if !reflect.DeepEqual(offline.Photos, []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"}) {
		t.Fatalf("photo order not preserved: %v", offline.Photos)
	}

	list, err := f.app.Field.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != offline.ID || list[1].ID != online.ID {
		t.Fatalf("observations not newest first: %+v", list)
	}
	if online.ID == offline.ID {
		t.Fatal("ids minted in the same millisecond collided")
	}

	pending, _ := f.app.Field.PendingCount(ctx)
	if pending != 1 {
		t.Fatalf("expected 1 pending, got %d", pending)
	}
}

func TestCreateObservationValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	if _, err := f.app.Field.CreateObservation(ctx, ObservationInput{TreeID: "1"}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	f.register(t, "Ana", "ana@forest.io")

	cases := []struct {
		name  string
		input ObservationInput
		want  error
	}{
		{"bad health", ObservationInput{TreeID: "1", Health: "dying"}, ErrInvalidHealth},
		{"gps without fix", ObservationInput{TreeID: "1", UseGPS: true}, ErrLocationUnavailable},
		{"unknown tree", ObservationInput{TreeID: "99"}, ErrReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.app.Field.CreateObservation(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	list, _ := f.app.Field.List(ctx)
	if len(list) != 0 {
		t.Fatalf("failed creates wrote %d observations", len(list))
	}
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.register(t, "Ana", "ana@forest.io")
	f.status.Set(false)

	for _, tree := range []string{"1", "2", "3"} {
		if _, err := f.app.Field.CreateObservation(ctx, ObservationInput{TreeID: tree, Notes: "n" + tree}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	before, _ := f.app.Field.List(ctx)

	if _, err := f.app.Field.SyncAll(ctx); !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
	if pending, _ := f.app.Field.PendingCount(ctx); pending != 3 {
		t.Fatalf("offline sync mutated records: %d pending", pending)
	}

	f.status.Set(true)
	flipped, err := f.app.Field.SyncAll(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if flipped != 3 {
		t.Fatalf("expected 3 flipped, got %d", flipped)
	}

	after, _ := f.app.Field.List(ctx)
	for i := range after {
		if !after[i].Synced {
			t.Fatalf("observation %s still pending", after[i].ID)
		}
		want := before[i]
		want.Synced = true
		if !reflect.DeepEqual(after[i], want) {
			t.Fatalf("sync changed more than the flag:\n got %+v\nwant %+v", after[i], want)
		}
	}

	if flipped, _ := f.app.Field.SyncAll(ctx); flipped != 0 {
		t.Fatalf("second sync flipped %d", flipped)
	}
}

func TestChatGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	groups, err := f.app.Chat.ListGroups(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(groups) != 4 {
		t.Fatalf("expected 4 seeded groups, got %d", len(groups))
	}

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, ok, err := f.app.Chat.CreateGroup(ctx, name); ok || err != nil {
			t.Fatalf("blank name %q created a group: %v %v", name, ok, err)
		}
	}

	group, ok, err := f.app.Chat.CreateGroup(ctx, "Night Owls")
	if err != nil || !ok {
		t.Fatalf("create: %v %v", ok, err)
	}
	if group.Members != 1 || group.LastMessage != "" {
		t.Fatalf("unexpected new group %+v", group)
	}

	groups, _ = f.app.Chat.ListGroups(ctx, "")
	if len(groups) != 5 || groups[4].ID != group.ID {
		t.Fatalf("group not appended: %+v", groups)
	}

	matches, _ := f.app.Chat.ListGroups(ctx, "OWL")
	if len(matches) != 1 || matches[0].Name != "Night Owls" {
		t.Fatalf("case-insensitive search failed: %+v", matches)
	}
}

func TestSendMessageUpdatesOnlyTargetGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	user := f.register(t, "Ana", "ana@forest.io")

	before, _ := f.app.Chat.ListGroups(ctx, "")
	seeded, _ := f.app.Chat.Messages(ctx, "2")

	msg, ok, err := f.app.Chat.SendMessage(ctx, "2", "hi")
	if err != nil || !ok {
		t.Fatalf("send: %v %v", ok, err)
	}
	if msg.UserID != user.ID || msg.UserName != "Ana" || msg.GroupID != "2" {
		t.Fatalf("unexpected message %+v", msg)
	}

	after, _ := f.app.Chat.ListGroups(ctx, "")
	for i := range after {
		if after[i].ID == "2" {
			if after[i].LastMessage != "hi" {
				t.Fatalf("group 2 lastMessage = %q", after[i].LastMessage)
			}
			continue
		}
		if !reflect.DeepEqual(after[i], before[i]) {
			t.Fatalf("group %s changed: %+v", after[i].ID, after[i])
		}
	}

	messages, _ := f.app.Chat.Messages(ctx, "2")
	if len(messages) != len(seeded)+1 || messages[len(messages)-1].ID != msg.ID {
		t.Fatalf("message not appended to group 2: %+v", messages)
	}

	if _, ok, err := f.app.Chat.SendMessage(ctx, "2", "   "); ok || err != nil {
		t.Fatalf("blank message sent: %v %v", ok, err)
	}
}

func TestSendMessageStrictReferences(t *testing.T) {
	ctx := context.Background()

	lax := newFixture(t, false)
	lax.register(t, "Ana", "ana@forest.io")
	if _, ok, err := lax.app.Chat.SendMessage(ctx, "404", "hello"); err != nil || !ok {
		t.Fatalf("lax mode should accept unknown group: %v %v", ok, err)
	}

	strict := newFixture(t, true)
	strict.register(t, "Ana", "ana@forest.io")
	if _, _, err := strict.app.Chat.SendMessage(ctx, "404", "hello"); !errors.Is(err, ErrReference) {
		t.Fatalf("expected ErrReference, got %v", err)
	}
	messages, _ := strict.app.Chat.Messages(ctx, "404")
	if len(messages) != 0 {
		t.Fatalf("rejected message was stored: %+v", messages)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.register(t, "Ana", "ana@forest.io")
	obs, err := f.app.Field.CreateObservation(ctx, ObservationInput{TreeID: "4", Notes: "bark damage"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	group, _, _ := f.app.Chat.CreateGroup(ctx, "Reload")

	reopened := NewApp(f.store, storage.InlineStore{}, f.status, Options{}, zerolog.Nop())

	current, err := reopened.Accounts.Current(ctx)
	if err != nil || current.Email != "ana@forest.io" {
		t.Fatalf("session not restored: %+v %v", current, err)
	}
	list, _ := reopened.Field.List(ctx)
	if len(list) != 1 || !reflect.DeepEqual(list[0], obs) {
		t.Fatalf("observations not restored: %+v", list)
	}
	groups, _ := reopened.Chat.ListGroups(ctx, "reload")
	if len(groups) != 1 || groups[0].ID != group.ID {
		t.Fatalf("groups not restored: %+v", groups)
	}
}

func TestHealthSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	summary, err := f.app.Analytics.HealthSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total != 6 {
		t.Fatalf("expected 6 trees, got %d", summary.Total)
	}
	if summary.Healthy+summary.AtRisk+summary.Critical != summary.Total {
		t.Fatalf("health counts do not add up: %+v", summary)
	}
}

func TestPercentRounding(t *testing.T) {
	cases := []struct {
		part, total int
		want        float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{3, 6, 50},
		{0, 4, 0},
	}
	for _, tc := range cases {
		if got := percent(tc.part, tc.total); got != tc.want {
			t.Fatalf("percent(%d, %d) = %v, want %v", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestTreeLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	tree, err := f.app.Trees.Get(ctx, 3)
	if err != nil || tree.ID != 3 {
		t.Fatalf("get: %+v %v", tree, err)
	}
	if _, err := f.app.Trees.Get(ctx, 42); !errors.Is(err, ErrTreeNotFound) {
		t.Fatalf("expected ErrTreeNotFound, got %v", err)
	}
}
