package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
)

type OrderItemInput struct {
	ProductID *int64 `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderItemOutput struct {
	ProductID *int64 `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// 品名ごとの集計（全メンバー横断）
type OrderStatOutput struct {
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
}

type MemberOutput struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type OrderDetailOutput struct {
	OrderID       int64             `json:"order_id"`
	UserID        int64             `json:"user_id"`
	UserName      string            `json:"user_name"`
	Items         []OrderItemOutput `json:"items"`
	Total         int64             `json:"total"`
	Summary       string            `json:"summary"`
	PaymentStatus string            `json:"payment_status"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func validateOrderItemInputs(inputs []OrderItemInput) error {
	for _, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return NewHTTPError(http.StatusBadRequest, "item name required")
		}
		if in.Quantity < 1 {
			return NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if in.Price < 0 {
			return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
	}
	return nil
}

// resolveOrderItems は入力の明細を現在のメニューに突き合わせる。
// product_id優先、無ければ名前で照合。一致したら名前・単価はメニュー側の値を
// スナップショットする（クライアントの単価は信用しない）。一致しなければ
// リンク無しのカスタム明細として受け入れる。
func resolveOrderItems(products []model.Product, inputs []OrderItemInput, now time.Time) []model.OrderItem {
	byID := make(map[int64]model.Product, len(products))
	byName := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		byName[p.Name] = p
	}

	items := make([]model.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)

		var p model.Product
		ok := false
		if in.ProductID != nil {
			p, ok = byID[*in.ProductID]
		}
		if !ok {
			p, ok = byName[name]
		}

		if ok {
			pid := p.ID
			items = append(items, model.OrderItem{
				ProductID:           &pid,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            in.Quantity,
				CreatedAt:           now,
			})
			continue
		}

		items = append(items, model.OrderItem{
			ProductID:           nil,
			ProductNameSnapshot: name,
			UnitPriceSnapshot:   in.Price,
			Quantity:            in.Quantity,
			CreatedAt:           now,
		})
	}
	return items
}

// buildOrderStats は品名でまとめて数量と金額を合計する。出現順を保つ。
func buildOrderStats(items []model.OrderItem) ([]OrderStatOutput, int64) {
	index := make(map[string]int, len(items))
	stats := make([]OrderStatOutput, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		line := it.UnitPriceSnapshot * it.Quantity
		total += line

		i, ok := index[it.ProductNameSnapshot]
		if !ok {
			index[it.ProductNameSnapshot] = len(stats)
			stats = append(stats, OrderStatOutput{
				Name:       it.ProductNameSnapshot,
				Quantity:   it.Quantity,
				TotalPrice: line,
			})
			continue
		}
		stats[i].Quantity += it.Quantity
		stats[i].TotalPrice += line
	}

	return stats, total
}

func orderTotal(items []model.OrderItem) int64 {
	var total int64 = 0
	for _, it := range items {
		total += it.UnitPriceSnapshot * it.Quantity
	}
	return total
}

// orderSummary は「品名*数量」をカンマ区切りで並べる。
func orderSummary(items []model.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s*%d", it.ProductNameSnapshot, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

func toOrderItemOutputs(items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}
	return outs
}

// ダッシュボードとグループ詳細で共通のビュー素材
type groupView struct {
	products         []ProductOutput
	members          []MemberOutput
	participantNames []string
	stats            []OrderStatOutput
	totalGroupAmount int64
	myOrder          *OrderDetailOutput
	orders           []OrderDetailOutput
}

func buildGroupView(ctx context.Context, r repo.TxRepos, g model.Group, viewerID int64) (groupView, error) {
	products, err := r.Products().ListByGroupID(ctx, g.ID)
	if err != nil {
		return groupView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	orders, err := r.Orders().ListByGroupID(ctx, g.ID)
	if err != nil {
		return groupView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	userIDs := make([]int64, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
	}
	users, err := r.Users().ListByIDs(ctx, userIDs)
	if err != nil {
		return groupView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	nameByID := make(map[int64]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}

	view := groupView{
		products:         toProductOutputs(products),
		members:          make([]MemberOutput, 0, len(orders)),
		participantNames: make([]string, 0, len(orders)),
		orders:           make([]OrderDetailOutput, 0, len(orders)),
	}

	allItems := make([]model.OrderItem, 0)
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return groupView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		allItems = append(allItems, items...)

		detail := OrderDetailOutput{
			OrderID:       o.ID,
			UserID:        o.UserID,
			UserName:      nameByID[o.UserID],
			Items:         toOrderItemOutputs(items),
			Total:         orderTotal(items),
			Summary:       orderSummary(items),
			PaymentStatus: string(o.PaymentStatus),
			UpdatedAt:     o.UpdatedAt,
		}
		view.orders = append(view.orders, detail)
		view.members = append(view.members, MemberOutput{UserID: o.UserID, Name: nameByID[o.UserID]})
		view.participantNames = append(view.participantNames, nameByID[o.UserID])

		if o.UserID == viewerID {
			d := detail
			view.myOrder = &d
		}
	}

	view.stats, view.totalGroupAmount = buildOrderStats(allItems)
	return view, nil
}
