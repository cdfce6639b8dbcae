package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/annie604/iPaidUpay-Server/internal/domain/model"
	repo "github.com/annie604/iPaidUpay-Server/internal/repository"
)

// メニュー編集の入力。IDありは既存の編集、ID無しは新規作成。
type ProductInput struct {
	ID    *int64 `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type ProductOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func validateProductInputs(inputs []ProductInput) error {
	for _, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return NewHTTPError(http.StatusBadRequest, "product name required")
		}
		if in.Price < 0 {
			return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
		}
	}
	return nil
}

// syncMenu は入力のメニューと保存済みメニューの差分を1つのトランザクション内で適用する。
// 呼び出し側がWithinTxで包むこと。
//
//  1. IDあり・変更なし → 何もしない
//  2. IDあり・名前か単価が変わった → メニューを更新し、既存明細へ反映する。
//     product_idで紐づく明細は上書き。旧名一致でリンクの無い明細（旧データ）は
//     上書きしたうえでproduct_idを補完する。
//  3. ID無し → 新規作成
//  4. 保存済みにあって入力に無いメニューは削除。ただしグループ内の明細から
//     ID・名前どちらかで参照されていたら全体を中断する。
func syncMenu(ctx context.Context, r repo.TxRepos, groupID int64, inputs []ProductInput) ([]model.Product, error) {
	stored, err := r.Products().ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	storedByID := make(map[int64]model.Product, len(stored))
	for _, p := range stored {
		storedByID[p.ID] = p
	}

	keep := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		if in.ID != nil {
			keep[*in.ID] = true
		}
	}

	//削除候補を先に確認。使用中のメニューが1つでもあれば全部適用しない
	for _, p := range stored {
		if keep[p.ID] {
			continue
		}
		used, err := r.OrderItems().ExistsReference(ctx, groupID, p.ID, p.Name)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if used {
			return nil, NewHTTPError(http.StatusConflict, fmt.Sprintf("cannot delete item in use: %s", p.Name))
		}
		if err := r.Products().Delete(ctx, p.ID); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)

		if in.ID == nil {
			if _, err := r.Products().Create(ctx, model.Product{
				GroupID: groupID,
				Name:    name,
				Price:   in.Price,
			}); err != nil {
				return nil, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			continue
		}

		old, ok := storedByID[*in.ID]
		if !ok {
			return nil, NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %d not found", *in.ID))
		}
		if old.Name == name && old.Price == in.Price {
			continue
		}

		if err := r.Products().Update(ctx, model.Product{ID: old.ID, Name: name, Price: in.Price}); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().UpdateSnapshotByProductID(ctx, groupID, old.ID, name, in.Price); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().AdoptByName(ctx, groupID, old.Name, old.ID, name, in.Price); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	result, err := r.Products().ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return result, nil
}

func toProductOutputs(products []model.Product) []ProductOutput {
	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, ProductOutput{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return outs
}
