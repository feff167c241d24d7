package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
)

// implements Repository interface using CouchDB
type CouchDBRepository struct {
	client *resty.Client
	dbName string
}

func NewCouchDBRepository(url string, dbName string, username string, password string, mock bool) (Repository, error) {
	cl := resty.New().SetBaseURL(url).SetTimeout(time.Second * 10)
	cl.SetHeader("Content-Type", "application/json")
	cl.SetHeader("Accept", "application/json")
	cl.SetBasicAuth(username, password)

	if mock {
		httpmock.ActivateNonDefault(cl.GetClient())
	}

	existsRes, existsErr := cl.R().Head(dbName)
	if existsErr != nil {
		return nil, fmt.Errorf("failed to check if database exists: %s", existsErr.Error())
	}
	if existsRes.StatusCode() == 200 {
		return &CouchDBRepository{cl, dbName}, nil
	}

	var ok types.OK
	var dbErr types.CouchDBError
	// create DB since it doesn't exist
	cl.R().SetResult(&ok).SetError(&dbErr).Put(dbName)
	if dbErr.Error != "" {
		return nil, fmt.Errorf("failed to create database %s: %s", dbName, dbErr.Error)
	}
	if !ok.IsOK {
		return nil, fmt.Errorf("failed to create database %s", dbName)
	}
	return &CouchDBRepository{cl, dbName}, nil
}

// GetByID returns a raw document response by its ID (map with MapToObject)
func (c *CouchDBRepository) GetByID(ctx context.Context, id string) (interface{}, error) {
	response, err := c.client.R().SetContext(ctx).Get(fmt.Sprintf("%s/%s", c.dbName, id))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(response); hErr != nil {
		return nil, hErr
	}
	return response, nil
}

// GetAll lists documents via _all_docs with the docs included
func (c *CouchDBRepository) GetAll(ctx context.Context, limit int, skip int) (interface{}, error) {
	response, err := c.client.R().SetContext(ctx).
		SetQueryParam("include_docs", "true").
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("skip", strconv.Itoa(skip)).
		Get(fmt.Sprintf("%s/_all_docs", c.dbName))
	if err != nil {
		return nil, err
	}
	if hErr := handleError(response); hErr != nil {
		return nil, hErr
	}
	return response, nil
}

// Save creates a new doc or updates an existing one (data must carry _rev to update)
func (c *CouchDBRepository) Save(ctx context.Context, docID string, data interface{}) error {
	response, err := c.client.R().SetContext(ctx).SetBody(data).Put(fmt.Sprintf("%s/%s", c.dbName, docID))
	if err != nil {
		return err
	}
	return handleError(response)
}

// Delete deletes a document by its ID
func (c *CouchDBRepository) Delete(ctx context.Context, id string) error {
	doc, err := c.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var base types.BaseDocument
	if mErr := MapToObject(doc, &base); mErr != nil {
		return mErr
	}
	response, dErr := c.client.R().SetContext(ctx).SetQueryParam("rev", base.UnderscoreRev).Delete(fmt.Sprintf("%s/%s", c.dbName, id))
	if dErr != nil {
		return dErr
	}
	return handleError(response)
}

// return name of the database
func (c *CouchDBRepository) GetDBName() string {
	return c.dbName
}

// returns a resty client
func (c *CouchDBRepository) GetClient() interface{} {
	return c.client
}
