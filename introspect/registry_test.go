package introspect_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treerest/treerest/introspect"
	"github.com/treerest/treerest/schema"
)

type Org struct {
	Name    string   `tree:"slug"`
	Groups  []string `tree:"child,type=Group,by=slug"`
	SubOrgs []string `tree:"child,type=Org,by=slug"`
}

type Group struct {
	Name  string   `tree:"slug"`
	Tasks []string `tree:"child,type=Task,by=slug"`
}

type Task struct {
	Name string `tree:"slug"`
}

type StatsResult struct {
	Count int
}

type CreateTaskBody struct {
	Name string
}

type AuthBody struct {
	Email    string
	Password string
}

type AuthResult struct {
	AccessToken string
}

type QuotaError struct {
	Message string
}

var errQuotaExceeded = errors.New("quota exceeded")

func orgIndex(ctx context.Context, o *Org) (*Org, error)           { return o, nil }
func groupIndex(ctx context.Context, g *Group) (*Group, error)     { return g, nil }
func groupStats(ctx context.Context, g *Group) (*StatsResult, error) {
	return &StatsResult{}, nil
}
func groupCreateTask(ctx context.Context, g *Group, body CreateTaskBody) (*Task, error) {
	return &Task{Name: body.Name}, nil
}
func groupAuth(ctx context.Context, g *Group, body AuthBody) (*AuthResult, error) {
	return &AuthResult{}, nil
}
func groupRemove(ctx context.Context, g *Group, actor introspect.Actor) (*Group, error) {
	return g, nil
}
func taskIndex(ctx context.Context, t *Task) (*Task, error) { return t, nil }

func buildRegistry(t *testing.T) *introspect.Registry {
	t.Helper()

	sreg := schema.NewRegistry()
	sreg.Register("Org", Org{})
	sreg.Register("Group", Group{})
	sreg.Register("Task", Task{})

	orgDescr := introspect.Describe[Org]().Index(orgIndex)
	groupDescr := introspect.Describe[Group]().
		Index(groupIndex).
		Handler("stats", introspect.GET, groupStats).
		Create("task", groupCreateTask).
		Auth(groupAuth).
		Remove(groupRemove).
		CanCrash(introspect.Crash{Err: errQuotaExceeded, Returns: QuotaError{}, Code: 422})
	taskDescr := introspect.Describe[Task]().Index(taskIndex)

	return introspect.NewRegistry(sreg, orgDescr, groupDescr, taskDescr)
}

func TestBuildRootIndexGetsBothTemplatesWhenRecursive(t *testing.T) {
	reg := buildRegistry(t)
	table, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)

	org := table["Org"]
	require.Contains(t, org.Handlers, "index")
	// Org is root and self-referential (SubOrgs), so it gets both templates.
	assert.ElementsMatch(t, []string{"/", "/{Type_Path}/"}, org.Handlers["index"].URLs)
	assert.ElementsMatch(t, []string{"Group", "Org"}, org.Factories)
}

func TestBuildNonRootGetsOnlyTypePathTemplates(t *testing.T) {
	reg := buildRegistry(t)
	table, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)

	group := table["Group"]
	assert.Equal(t, []string{"/{Type_Path}/"}, group.Handlers["index"].URLs)
	assert.Equal(t, []string{"/{Type_Path}/stats"}, group.Handlers["stats"].URLs)
	assert.Equal(t, introspect.GET, group.Handlers["stats"].Verb)
	assert.Equal(t, []string{"StatsResult"}, group.Handlers["stats"].Produces)
}

func TestBuildCreateHandlerShape(t *testing.T) {
	reg := buildRegistry(t)
	table, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)

	create := table["Group"].Handlers["create_task"]
	assert.Equal(t, introspect.POST, create.Verb)
	assert.Equal(t, []string{"/{Type_Path}/new/task"}, create.URLs)
	assert.Equal(t, "CreateTaskBody", create.Consumes)
	assert.Equal(t, []string{"Task"}, create.Produces)
}

func TestBuildAuthHandlerShape(t *testing.T) {
	reg := buildRegistry(t)
	table, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)

	auth := table["Group"].Handlers["auth"]
	assert.Equal(t, introspect.POST, auth.Verb)
	assert.Equal(t, []string{"/{Type_Path}/auth"}, auth.URLs)
	assert.Equal(t, "AuthBody", auth.Consumes)
}

func TestBuildActorFlagAndCanCrash(t *testing.T) {
	reg := buildRegistry(t)
	table, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)

	remove := table["Group"].Handlers["remove"]
	assert.True(t, remove.Actor)
	assert.Equal(t, introspect.DELETE, remove.Verb)
	require.Len(t, remove.CanCrash, 1)
	assert.Equal(t, 422, remove.CanCrash[0].Code)
	assert.Equal(t, "QuotaError", remove.CanCrash[0].Returns)
}

func TestBuildReachesLeafTypeWithNoIntrospectRegistration(t *testing.T) {
	sreg := schema.NewRegistry()
	sreg.Register("Org", Org{})
	sreg.Register("Group", Group{})
	sreg.Register("Task", Task{})

	orgDescr := introspect.Describe[Org]().Index(orgIndex)
	groupDescr := introspect.Describe[Group]().Index(groupIndex)
	// Task has a schema descriptor but never calls Describe[Task]() — Build
	// must still visit it and emit an entry with no handlers.
	reg := introspect.NewRegistry(sreg, orgDescr, groupDescr)

	table, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)
	require.Contains(t, table, "Task")
	assert.Empty(t, table["Task"].Handlers)
}

func TestBuildIsDeterministic(t *testing.T) {
	reg := buildRegistry(t)

	first, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)
	second, err := reg.Build(reflect.TypeOf(Org{}))
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestBuildErrorsOnUnregisteredSchemaType(t *testing.T) {
	sreg := schema.NewRegistry()
	sreg.Register("Org", Org{})
	orgDescr := introspect.Describe[Org]().Index(orgIndex)
	reg := introspect.NewRegistry(sreg, orgDescr)

	// Org declares a Group child field but Group was never registered with
	// the schema registry.
	_, err := reg.Build(reflect.TypeOf(Org{}))
	assert.Error(t, err)
}

func TestDescribePanicsOnMismatchedNodeParameter(t *testing.T) {
	assert.Panics(t, func() {
		introspect.Describe[Org]().Index(func(ctx context.Context, g *Group) (*Group, error) {
			return g, nil
		})
	})
}

func TestDescribePanicsOnMissingErrorReturn(t *testing.T) {
	assert.Panics(t, func() {
		introspect.Describe[Org]().Index(func(ctx context.Context, o *Org) *Org {
			return o
		})
	})
}
