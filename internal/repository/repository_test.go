package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RepositoryTestSuite runs the same contract checks against every store.
type RepositoryTestSuite struct {
	suite.Suite
	newStores func(t *testing.T) (UserRepository, TaskRepository)
	users     UserRepository
	tasks     TaskRepository
	ctx       context.Context
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.users, suite.tasks = suite.newStores(suite.T())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func (suite *RepositoryTestSuite) createUser(username, email string) *models.User {
	user := &models.User{Username: username, Email: email, Name: username, PasswordHash: "hash"}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))
	return user
}

func (suite *RepositoryTestSuite) createTask(userID uint64, title string, tag models.TaskTag, due string) *models.Task {
	task := &models.Task{
		Title:    title,
		Priority: models.PriorityMedium,
		DueDate:  due,
		Tag:      tag,
		UserID:   userID,
	}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))
	return task
}

func (suite *RepositoryTestSuite) TestCreateUser_DefaultsRoleAndAssignsID() {
	first := suite.createUser("alice", "a@x.io")
	second := suite.createUser("bob", "b@x.io")

	suite.NotZero(first.ID)
	suite.NotEqual(first.ID, second.ID)
	suite.Equal(models.RoleUser, first.Role)
}

func (suite *RepositoryTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser("alice", "a@x.io")

	err := suite.users.Create(suite.ctx, &models.User{Username: "alice2", Email: "a@x.io", Name: "A"})
	suite.ErrorIs(err, ErrDuplicate)
}

func (suite *RepositoryTestSuite) TestFindUser() {
	googleID := "g-123"
	user := &models.User{Username: "alice", Email: "a@x.io", Name: "Alice", GoogleID: &googleID}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))

	byID, err := suite.users.FindByID(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal("alice", byID.Username)

	byEmail, err := suite.users.FindByEmail(suite.ctx, "a@x.io")
	suite.Require().NoError(err)
	suite.Equal(user.ID, byEmail.ID)

	byGoogle, err := suite.users.FindByGoogleID(suite.ctx, "g-123")
	suite.Require().NoError(err)
	suite.Equal(user.ID, byGoogle.ID)

	_, err = suite.users.FindByUsername(suite.ctx, "nobody")
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RepositoryTestSuite) TestUpdateUser_MergesFields() {
	user := suite.createUser("alice", "a@x.io")

	role := models.RoleAdmin
	updated, err := suite.users.Update(suite.ctx, user.ID, UserPatch{Role: &role})
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, updated.Role)
	suite.Equal("alice", updated.Username)
	suite.Equal("a@x.io", updated.Email)

	_, err = suite.users.Update(suite.ctx, 9999, UserPatch{Role: &role})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RepositoryTestSuite) TestListUsers_OrderedByID() {
	suite.createUser("alice", "a@x.io")
	suite.createUser("bob", "b@x.io")

	users, err := suite.users.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal("alice", users[0].Username)
	suite.Equal("bob", users[1].Username)
}

func (suite *RepositoryTestSuite) TestDeleteUser_CascadesTasks() {
	alice := suite.createUser("alice", "a@x.io")
	bob := suite.createUser("bob", "b@x.io")
	suite.createTask(alice.ID, "one", models.TagWork, "2024-01-01")
	suite.createTask(alice.ID, "two", models.TagWork, "2024-01-02")
	bobTask := suite.createTask(bob.ID, "bob's", models.TagWork, "2024-01-02")

	deleted, err := suite.users.Delete(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.True(deleted)

	tasks, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: alice.ID})
	suite.Require().NoError(err)
	suite.Empty(tasks)

	_, err = suite.users.FindByID(suite.ctx, alice.ID)
	suite.ErrorIs(err, ErrNotFound)

	_, err = suite.tasks.FindByID(suite.ctx, bobTask.ID)
	suite.NoError(err)

	deleted, err = suite.users.Delete(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.False(deleted)
}

func (suite *RepositoryTestSuite) TestCreateTask_Defaults() {
	user := suite.createUser("alice", "a@x.io")
	task := &models.Task{Title: "Buy milk", Priority: models.PriorityLow, DueDate: "2024-01-01", Tag: models.TagShopping, UserID: user.ID, Completed: true}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task))

	stored, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.False(stored.Completed)
	suite.Equal("", stored.Description)
}

func (suite *RepositoryTestSuite) TestListByUser_Filters() {
	alice := suite.createUser("alice", "a@x.io")
	bob := suite.createUser("bob", "b@x.io")
	milk := suite.createTask(alice.ID, "Buy milk", models.TagShopping, "2024-01-03")
	suite.createTask(alice.ID, "Write report", models.TagWork, "2024-01-01")
	suite.createTask(bob.ID, "Buy bread", models.TagShopping, "2024-01-01")

	_, err := suite.tasks.Update(suite.ctx, milk.ID, TaskFields{
		Title: milk.Title, Description: "two litres", Priority: milk.Priority,
		DueDate: milk.DueDate, Tag: milk.Tag, Completed: true,
	})
	suite.Require().NoError(err)

	all, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: alice.ID, Status: TaskStatusAll})
	suite.Require().NoError(err)
	suite.Require().Len(all, 2)
	suite.Equal("Write report", all[0].Title, "ordered by due date")

	pending, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: alice.ID, Status: TaskStatusPending})
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("Write report", pending[0].Title)

	completed, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: alice.ID, Status: TaskStatusCompleted})
	suite.Require().NoError(err)
	suite.Require().Len(completed, 1)

	shopping, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: alice.ID, Tag: models.TagShopping})
	suite.Require().NoError(err)
	suite.Require().Len(shopping, 1)
	suite.Equal(milk.ID, shopping[0].ID)

	searched, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: alice.ID, Search: "LITRES"})
	suite.Require().NoError(err)
	suite.Require().Len(searched, 1)
	suite.Equal(milk.ID, searched[0].ID)

	none, err := suite.tasks.ListByUser(suite.ctx, TaskFilter{UserID: 9999})
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)
}

func (suite *RepositoryTestSuite) TestUpdateTask_FullReplacement() {
	user := suite.createUser("alice", "a@x.io")
	task := suite.createTask(user.ID, "Buy milk", models.TagShopping, "2024-01-01")

	updated, err := suite.tasks.Update(suite.ctx, task.ID, TaskFields{
		Title:    "Buy oat milk",
		Priority: models.PriorityHigh,
		DueDate:  "2024-02-01",
		Tag:      models.TagPersonal,
	})
	suite.Require().NoError(err)
	suite.Equal("Buy oat milk", updated.Title)
	suite.Equal(models.PriorityHigh, updated.Priority)
	suite.Equal(user.ID, updated.UserID)

	_, err = suite.tasks.Update(suite.ctx, 9999, TaskFields{Title: "x"})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RepositoryTestSuite) TestDeleteTask() {
	user := suite.createUser("alice", "a@x.io")
	task := suite.createTask(user.ID, "Buy milk", models.TagShopping, "2024-01-01")

	deleted, err := suite.tasks.Delete(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.True(deleted)

	deleted, err = suite.tasks.Delete(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.False(deleted)
}

func TestGormRepositories(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newStores: func(t *testing.T) (UserRepository, TaskRepository) {
			db := openTestDB(t)
			return NewUserRepository(db), NewTaskRepository(db)
		},
	})
}

func TestMemoryRepositories(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newStores: func(t *testing.T) (UserRepository, TaskRepository) {
			store := NewMemoryStore()
			return store.Users(), store.Tasks()
		},
	})
}
