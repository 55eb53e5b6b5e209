package core

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"testing"
)

func TestGetProduct_TemplateFirstFallsBackToVariant(t *testing.T) {
	store := newStubRecordStore().
		on(productVariantModel, records(Record{"id": float64(11), "default_code": "SKU1"}))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	product, err := svc.GetProduct(context.Background(), ProductBySKU{SKU: "SKU1"}, true)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if id, _ := product.ID(); id != 11 {
		t.Fatalf("expected variant product, got %#v", product)
	}
	calls := store.searchCalls("")
	if len(calls) != 2 || calls[0].Model != productTemplateModel || calls[1].Model != productVariantModel {
		t.Fatalf("expected template then variant search, got %#v", calls)
	}
}

func TestGetProduct_VariantFirstStopsAtFirstMatch(t *testing.T) {
	store := newStubRecordStore().
		on(productVariantModel, records(Record{"id": float64(11)})).
		on(productTemplateModel, records(Record{"id": float64(22)}))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	product, err := svc.GetProduct(context.Background(), ProductByID{ID: 11}, false)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if id, _ := product.ID(); id != 11 {
		t.Fatalf("expected variant first, got %#v", product)
	}
	if len(store.searchCalls(productTemplateModel)) != 0 {
		t.Fatalf("expected template model not searched")
	}
}

func TestSearchProductsByName_FiltersAndDedups(t *testing.T) {
	store := newStubRecordStore().
		on(productTemplateModel, failing(errors.New("transport: remote returned status 500"))).
		on(productVariantModel, records(
			Record{"id": float64(1), "default_code": "A", "barcode": false, "x_studio_marca": "Acme"},
			Record{"id": float64(2), "default_code": "A", "barcode": "123", "x_studio_marca": "Acme"},
			Record{"id": float64(3), "default_code": false, "barcode": false, "x_studio_marca": "Acme"},
			Record{"id": float64(4), "default_code": "B", "barcode": false, "x_studio_marca": false},
			Record{"id": float64(5), "default_code": false, "barcode": "999", "x_studio_marca": "Acme"},
		))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	products, err := svc.SearchProductsByName(context.Background(), "Blue Widget")
	if err != nil {
		t.Fatalf("search products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %#v", products)
	}
	if id, _ := products[0].ID(); id != 1 {
		t.Fatalf("expected first A kept, got %#v", products[0])
	}
	if id, _ := products[1].ID(); id != 5 {
		t.Fatalf("expected barcode-only product kept, got %#v", products[1])
	}
	want := `[["name","ilike","%Blue%Widget%"],["active","=",true]]`
	if got := store.searchCalls(productVariantModel)[0].Domain.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestListProducts_MergesBothModelsUniqueByCode(t *testing.T) {
	store := newStubRecordStore().
		on(productVariantModel, records(
			Record{"id": float64(1), "default_code": "A"},
			Record{"id": float64(2), "default_code": "B"},
		)).
		on(productTemplateModel, records(
			Record{"id": float64(3), "default_code": "B"},
			Record{"id": float64(4), "default_code": "C"},
		))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	products, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	codes := []string{}
	for _, product := range products {
		codes = append(codes, product.String("default_code"))
	}
	if len(codes) != 3 || codes[0] != "A" || codes[1] != "B" || codes[2] != "C" {
		t.Fatalf("unexpected codes %v", codes)
	}
	if id, _ := products[1].ID(); id != 2 {
		t.Fatalf("expected variant B to win, got %#v", products[1])
	}
}

func TestListProducts_PropagatesFailure(t *testing.T) {
	store := newStubRecordStore().on(productTemplateModel, failing(errors.New("transport: remote returned status 500")))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.ListProducts(context.Background()); !HasTextCode(err, ErrorRemoteFailure) {
		t.Fatalf("expected remote failure, got %v", err)
	}
}

func TestProductImages_DecodesGallery(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	store := newStubRecordStore().on(productImageModel, func(req SearchRequest) ([]Record, error) {
		if req.Domain[0].(Condition).Field == "product_tmpl_id" {
			return []Record{}, nil
		}
		return []Record{{"image_1024": encoded}, {"image_1024": false}}, nil
	})
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	images, err := svc.ProductImages(context.Background(), 7, "SKU7")
	if err != nil {
		t.Fatalf("product images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected one decoded image, got %d", len(images))
	}
	if images[0].Name != "SKU7_0.jpg" || images[0].Path != filepath.Join("static/images", "SKU7_0.jpg") {
		t.Fatalf("unexpected image target %#v", images[0])
	}
	if string(images[0].Content) != "jpeg-bytes" {
		t.Fatalf("unexpected image content %q", images[0].Content)
	}
	if calls := store.searchCalls(productImageModel); len(calls) != 2 {
		t.Fatalf("expected template then variant gallery search, got %d", len(calls))
	}
}

func TestProductImages_FallsBackToMainImage(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("main"))
	store := newStubRecordStore().
		on(productImageModel, failing(errors.New("transport: remote returned status 500: model not found"))).
		on(productTemplateModel, records(Record{"image_1024": false})).
		on(productVariantModel, records(Record{"image_1024": encoded}))
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	images, err := svc.ProductImages(context.Background(), 7, "SKU7")
	if err != nil {
		t.Fatalf("product images: %v", err)
	}
	if len(images) != 1 || string(images[0].Content) != "main" || images[0].Name != "SKU7_0.jpg" {
		t.Fatalf("unexpected fallback images %#v", images)
	}
}

func TestCreateAttachment_ValidatesAndCreates(t *testing.T) {
	store := newStubRecordStore()
	svc, err := newTestService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.CreateAttachment(ctx, CreateAttachmentInput{Name: "a.png", DataBase64: "data:image/png;base64,AAAA", ResModel: "helpdesk.ticket", ResID: 4}); !HasTextCode(err, ErrorBadInput) {
		t.Fatalf("expected data uri rejected, got %v", err)
	}
	payload := base64.StdEncoding.EncodeToString([]byte("file"))
	if _, err := svc.CreateAttachment(ctx, CreateAttachmentInput{Name: "a.png", DataBase64: payload, ResModel: "helpdesk.ticket", ResID: 4}); err != nil {
		t.Fatalf("create attachment: %v", err)
	}
	creates := store.createCalls()
	if len(creates) != 1 || creates[0].Model != attachmentModel {
		t.Fatalf("expected attachment create, got %#v", creates)
	}
	if creates[0].Args[0]["datas"] != payload || creates[0].Args[0]["res_id"] != int64(4) {
		t.Fatalf("unexpected attachment values %#v", creates[0].Args[0])
	}
}
