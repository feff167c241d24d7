package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

var url = "http://localhost:5689"

func initMockDatabase(dbName string) (Repository, error) {
	httpmock.Activate()

	mr, mErr := httpmock.NewJsonResponder(201, types.OK{IsOK: true})
	if mErr != nil {
		return nil, mErr
	}
	httpmock.RegisterResponder("HEAD", fmt.Sprintf("%s/%s", url, dbName), mr)
	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/%s", url, dbName), mr)

	db, err := NewCouchDBRepository(url, dbName, "test", "test", true)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func deactivateMock() {
	httpmock.DeactivateAndReset()
}

func TestInitNewDatabase(t *testing.T) {
	db, err := initMockDatabase(Mailbox)
	defer deactivateMock()
	if err != nil {
		t.Fatal(err)
	}
	if db == nil {
		t.Fatal("db is nil")
	}
}

func TestSaveAndGetByID(t *testing.T) {
	db, _ := initMockDatabase(Mailbox)
	defer deactivateMock()

	ok, _ := httpmock.NewJsonResponder(201, types.OK{IsOK: true})
	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/%s/%s", url, Mailbox, "+15555555555"), ok)

	doc, _ := httpmock.NewJsonResponder(200, types.Mailbox{UnderscoreID: "+15555555555", PhoneNumber: "+15555555555", Carrier: "Foo Wireless"})
	httpmock.RegisterResponder("GET", fmt.Sprintf("%s/%s/%s", url, Mailbox, "+15555555555"), doc)

	sErr := db.Save(context.Background(), "+15555555555", &types.Mailbox{
		UnderscoreID: "+15555555555",
		PhoneNumber:  "+15555555555",
		Carrier:      "Foo Wireless",
	})
	if sErr != nil {
		t.Fatal(sErr)
	}

	res, err := db.GetByID(context.Background(), "+15555555555")
	if err != nil {
		t.Fatal(err)
	}
	var mailbox types.Mailbox
	mErr := MapToObject(res, &mailbox)
	if mErr != nil {
		t.Fatal(mErr)
	}
	assert.Equal(t, "+15555555555", mailbox.PhoneNumber)
	assert.Equal(t, "Foo Wireless", mailbox.Carrier)
}

func TestGetByIDNotFound(t *testing.T) {
	db, _ := initMockDatabase(Mailbox)
	defer deactivateMock()

	notFound, _ := httpmock.NewJsonResponder(404, types.CouchDBError{Error: "not_found", Reason: "missing"})
	httpmock.RegisterResponder("GET", fmt.Sprintf("%s/%s/%s", url, Mailbox, "+17777777777"), notFound)

	_, err := db.GetByID(context.Background(), "+17777777777")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSaveConflict(t *testing.T) {
	db, _ := initMockDatabase(Mailbox)
	defer deactivateMock()

	conflict, _ := httpmock.NewJsonResponder(409, types.CouchDBError{Error: "conflict", Reason: "Document update conflict."})
	httpmock.RegisterResponder("PUT", fmt.Sprintf("%s/%s/%s", url, Mailbox, "+15555555555"), conflict)

	err := db.Save(context.Background(), "+15555555555", &types.Mailbox{PhoneNumber: "+15555555555"})
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestChooseDB(t *testing.T) {
	db, _ := initMockDatabase(Mailbox)
	defer deactivateMock()

	selector := NewCouchDBSelector()
	selector.AddDB(db)

	chosen, err := selector.ChooseDB(Mailbox)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Mailbox, chosen.GetDBName())

	_, err = selector.ChooseDB("voicemail")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
