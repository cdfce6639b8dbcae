package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
	"github.com/annie604/iPaidUpay-Server/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validCreateInput() usecase.CreateGroupInput {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return usecase.CreateGroupInput{
		Title:     "KFC",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Products: []usecase.ProductInput{
			{Name: "Hamburger", Price: 100},
			{Name: "Fries", Price: 40},
		},
	}
}

func TestGroupUsecase_CreateGroup_TitleRequired(t *testing.T) {
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: newTxReposStub()})

	in := validCreateInput()
	in.Title = "  "
	_, err := uc.CreateGroup(context.Background(), 1, in)

	assertHTTPStatus(t, err, 400)
	assertErrContains(t, err, "title required")
}

func TestGroupUsecase_CreateGroup_DatesRequired(t *testing.T) {
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: newTxReposStub()})

	in := validCreateInput()
	in.StartTime = time.Time{}
	_, err := uc.CreateGroup(context.Background(), 1, in)
	assertErrContains(t, err, "start_time required")

	in = validCreateInput()
	in.EndTime = time.Time{}
	_, err = uc.CreateGroup(context.Background(), 1, in)
	assertErrContains(t, err, "end_time required")
}

func TestGroupUsecase_CreateGroup_Success(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("Create", mock.Anything, mock.MatchedBy(func(g model.Group) bool {
		return g.Title == "KFC" && g.Status == model.GroupStatusOpen && g.CreatorID == 1
	})).Return(int64(5), nil)

	repos.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.GroupID == 5 && p.Name == "Hamburger" && p.Price == 100
	})).Return(model.Product{ID: 1, GroupID: 5, Name: "Hamburger", Price: 100}, nil)
	repos.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.GroupID == 5 && p.Name == "Fries" && p.Price == 40
	})).Return(model.Product{ID: 2, GroupID: 5, Name: "Fries", Price: 40}, nil)

	//作成者の注文はPAIDで作られ、初期注文が入る
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.GroupID == 5 && o.UserID == 1 && o.PaymentStatus == model.PaymentStatusPaid
	})).Return(int64(10), nil)

	var creatorItems []model.OrderItem
	repos.orderItems.On("CreateBulk", mock.Anything, int64(10), mock.Anything).
		Run(func(args mock.Arguments) {
			creatorItems, _ = args.Get(2).([]model.OrderItem)
		}).
		Return(nil)

	//招待メンバー（重複は1回に潰される）
	repos.users.On("FindByID", mock.Anything, int64(2)).Return(model.User{ID: 2}, nil)
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.GroupID == 5 && o.UserID == 2 && o.PaymentStatus == model.PaymentStatusUnpaid
	})).Return(int64(11), nil).Once()

	in := validCreateInput()
	in.InvitedUserIDs = []int64{2, 2, 1}
	in.InitialOrder = []usecase.OrderItemInput{
		{Name: "Hamburger", Quantity: 1},
		{Name: "Fries", Quantity: 4},
	}

	out, err := uc.CreateGroup(ctx, 1, in)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
	assert.Equal(t, "OPEN", out.Status)
	assert.Len(t, out.Products, 2)

	if assert.Len(t, creatorItems, 2) {
		assert.Equal(t, int64(100), creatorItems[0].UnitPriceSnapshot)
		assert.Equal(t, int64(40), creatorItems[1].UnitPriceSnapshot)
	}

	repos.orders.AssertExpectations(t)
	repos.products.AssertExpectations(t)
}

func TestGroupUsecase_UpdateGroup_NotFound(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(999)).Return(model.Group{}, repo.ErrNotFound)

	in := usecase.UpdateGroupInput{Title: "KFC", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
	_, err := uc.UpdateGroup(ctx, 1, 999, in)
	assertHTTPStatus(t, err, 404)
}

func TestGroupUsecase_UpdateGroup_ForbiddenForNonCreator(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(5)).
		Return(model.Group{ID: 5, CreatorID: 1}, nil)

	in := usecase.UpdateGroupInput{Title: "KFC", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
	_, err := uc.UpdateGroup(ctx, 2, 5, in)
	assertHTTPStatus(t, err, 403)
}

// メンバー同期：外れた人の注文は明細ごと消え、新しい人には空注文ができる
func TestGroupUsecase_UpdateGroup_MembershipSync(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	g := model.Group{ID: 5, CreatorID: 1, Status: model.GroupStatusOpen}
	repos.groups.On("FindByID", mock.Anything, int64(5)).Return(g, nil)
	repos.groups.On("UpdateInfo", mock.Anything, int64(5), "KFC", mock.Anything, mock.Anything).Return(nil)

	//既存：作成者(1)とユーザー2。新しい招待リストはユーザー3だけ
	repos.orders.On("ListByGroupID", mock.Anything, int64(5)).Return([]model.Order{
		{ID: 10, GroupID: 5, UserID: 1},
		{ID: 11, GroupID: 5, UserID: 2},
	}, nil)
	repos.users.On("FindByID", mock.Anything, int64(3)).Return(model.User{ID: 3}, nil)
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.GroupID == 5 && o.UserID == 3 && o.PaymentStatus == model.PaymentStatusUnpaid
	})).Return(int64(12), nil)
	repos.orderItems.On("DeleteByOrderID", mock.Anything, int64(11)).Return(nil)
	repos.orders.On("Delete", mock.Anything, int64(11)).Return(nil)

	//メニューは変更なし
	repos.products.On("ListByGroupID", mock.Anything, int64(5)).Return(kfcMenu(), nil)

	in := usecase.UpdateGroupInput{
		Title:     "KFC",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
		Products: []usecase.ProductInput{
			{ID: intPtr(1), Name: "Hamburger", Price: 100},
			{ID: intPtr(2), Name: "Fries", Price: 40},
		},
		InvitedUserIDs: []int64{3},
	}

	out, err := uc.UpdateGroup(ctx, 1, 5, in)
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	repos.orders.AssertExpectations(t)
	repos.orderItems.AssertExpectations(t)
	//作成者の注文は消えない
	repos.orders.AssertNotCalled(t, "Delete", mock.Anything, int64(10))
}

func TestGroupUsecase_DeleteGroup_BlockedByUnpaidOrder(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(5)).
		Return(model.Group{ID: 5, CreatorID: 1}, nil)
	repos.orders.On("ListByGroupID", mock.Anything, int64(5)).Return([]model.Order{
		{ID: 10, UserID: 1, PaymentStatus: model.PaymentStatusPaid},
		{ID: 11, UserID: 2, PaymentStatus: model.PaymentStatusUnpaid},
	}, nil)

	err := uc.DeleteGroup(ctx, 1, 5)

	assertHTTPStatus(t, err, 409)
	assertErrContains(t, err, "unpaid")
	repos.groups.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	repos.orderItems.AssertNotCalled(t, "DeleteByGroupID", mock.Anything, mock.Anything)
}

func TestGroupUsecase_DeleteGroup_AllPaidSucceeds(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(5)).
		Return(model.Group{ID: 5, Title: "KFC", CreatorID: 1, Status: model.GroupStatusClosed}, nil)
	repos.orders.On("ListByGroupID", mock.Anything, int64(5)).Return([]model.Order{
		{ID: 10, UserID: 1, PaymentStatus: model.PaymentStatusPaid},
		{ID: 11, UserID: 2, PaymentStatus: model.PaymentStatusPaid},
	}, nil)
	repos.orderItems.On("DeleteByGroupID", mock.Anything, int64(5)).Return(nil)
	repos.orders.On("DeleteByGroupID", mock.Anything, int64(5)).Return(nil)
	repos.products.On("DeleteByGroupID", mock.Anything, int64(5)).Return(nil)
	repos.groups.On("Delete", mock.Anything, int64(5)).Return(nil)
	repos.auditLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteGroup && l.ResourceID == 5
	})).Return(nil)

	err := uc.DeleteGroup(ctx, 1, 5)

	assert.NoError(t, err)
	repos.orderItems.AssertExpectations(t)
	repos.orders.AssertExpectations(t)
	repos.products.AssertExpectations(t)
	repos.groups.AssertExpectations(t)
}

func TestGroupUsecase_DeleteGroup_ForbiddenForNonCreator(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(5)).
		Return(model.Group{ID: 5, CreatorID: 1}, nil)

	err := uc.DeleteGroup(ctx, 2, 5)
	assertHTTPStatus(t, err, 403)
}

func TestGroupUsecase_UpdateGroupStatus_InvalidStatus(t *testing.T) {
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: newTxReposStub()})

	err := uc.UpdateGroupStatus(context.Background(), 1, 5, "DONE")
	assertHTTPStatus(t, err, 400)
	assertErrContains(t, err, "invalid status")
}

func TestGroupUsecase_UpdateGroupStatus_Success(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(5)).
		Return(model.Group{ID: 5, CreatorID: 1, Status: model.GroupStatusOpen}, nil)
	repos.groups.On("UpdateStatus", mock.Anything, int64(5), model.GroupStatusClosed).Return(nil)
	repos.auditLogs.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateGroupStatus
	})).Return(nil)

	err := uc.UpdateGroupStatus(ctx, 1, 5, "CLOSED")
	assert.NoError(t, err)
	repos.groups.AssertExpectations(t)
}

func TestGroupUsecase_UpdateGroupStatus_ForbiddenForNonCreator(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	repos.groups.On("FindByID", mock.Anything, int64(5)).
		Return(model.Group{ID: 5, CreatorID: 1}, nil)

	err := uc.UpdateGroupStatus(ctx, 2, 5, "CLOSED")
	assertHTTPStatus(t, err, 403)
}

func TestGroupUsecase_GetDashboardGroups_TotalsMatch(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := usecase.NewGroupUsecase(&txManagerStub{repos: repos})

	g := model.Group{ID: 5, Title: "KFC", CreatorID: 1, Status: model.GroupStatusOpen}
	repos.groups.On("ListByParticipant", mock.Anything, int64(2)).Return([]model.Group{g}, nil)
	repos.products.On("ListByGroupID", mock.Anything, int64(5)).Return(kfcMenu(), nil)
	repos.orders.On("ListByGroupID", mock.Anything, int64(5)).Return([]model.Order{
		{ID: 10, GroupID: 5, UserID: 1, PaymentStatus: model.PaymentStatusPaid},
		{ID: 11, GroupID: 5, UserID: 2, PaymentStatus: model.PaymentStatusUnpaid},
	}, nil)
	repos.users.On("ListByIDs", mock.Anything, []int64{1, 2}).Return([]model.User{
		{ID: 1, Name: "Amy"},
		{ID: 2, Name: "Bob"},
	}, nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{
		{ProductID: intPtr(1), ProductNameSnapshot: "Hamburger", UnitPriceSnapshot: 100, Quantity: 2},
	}, nil)
	repos.orderItems.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{
		{ProductID: intPtr(2), ProductNameSnapshot: "Fries", UnitPriceSnapshot: 40, Quantity: 3},
	}, nil)

	outs, err := uc.GetDashboardGroups(ctx, 2)
	assert.NoError(t, err)

	if assert.Len(t, outs, 1) {
		out := outs[0]
		assert.False(t, out.IsCreator)
		assert.Equal(t, int64(320), out.TotalGroupAmount)

		var statSum int64
		for _, s := range out.OrderStats {
			statSum += s.TotalPrice
		}
		assert.Equal(t, out.TotalGroupAmount, statSum)

		if assert.NotNil(t, out.MyOrder) {
			assert.Equal(t, int64(120), out.MyOrder.Total)
			assert.Equal(t, "Fries*3", out.MyOrder.Summary)
		}
	}
}
