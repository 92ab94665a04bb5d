package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// DecodeLines parses a newline delimited JSON body.
func DecodeLines(body string) []interface{} {
	result := []interface{}{}
	d := json.NewDecoder(strings.NewReader(body))
	for {
		var item interface{}
		if err := d.Decode(&item); err != nil {
			return result
		}
		result = append(result, item)
	}
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List collections - empty", func(a *biff.A) {
		resp := apiRequest("GET", "/collections").Do()
		Document(resp, "List collections", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Retrieve missing collection", func(a *biff.A) {
		resp := apiRequest("GET", "/collections/nope").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Insert one", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/people:insert").
			WithBodyJson(JSON{"name": "Fulanez", "address": "Elm Street 11"}).Do()
		Document(resp, "Insert one", `
			Inserts documents, one JSON object per line. Documents without _id
			get one assigned by the collection.
		`)

		myDocument := JSON{"_id": "1000", "name": "Fulanez", "address": "Elm Street 11"}

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), myDocument)

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/people").Do()
			Document(resp, "Retrieve collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"name":     "people",
				"total":    1,
				"next_id":  1001,
				"defaults": nil,
			})
		})

		a.Alternative("List collections", func(a *biff.A) {
			resp := apiRequest("GET", "/collections").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{"name": "people", "total": 1, "next_id": 1001, "defaults": nil},
			})
		})

		a.Alternative("Find with fullscan", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:find").
				WithBodyJson(JSON{
					"mode":   "fullscan",
					"filter": JSON{"name": "Fulanez"},
				}).Do()
			Document(resp, "Find - fullscan", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(DecodeLines(resp.BodyString()), []JSON{myDocument})
		})

		a.Alternative("Insert duplicated _id", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:insert").
				WithBodyJson(JSON{"_id": "1000"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})
	})

	a.Alternative("Insert stream", func(a *biff.A) {

		myDocuments := []JSON{
			{"name": "Alfonso", "age": 30},
			{"name": "Gerardo", "age": 25},
			{"name": "Alfonso", "age": 41},
		}

		body := ""
		for _, myDocument := range myDocuments {
			line, _ := json.Marshal(myDocument)
			body += string(line) + "\n"
		}
		resp := apiRequest("POST", "/collections/people:insert").
			WithBodyString(body).Do()
		Document(resp, "Insert many - stream", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(DecodeLines(resp.BodyString()), []JSON{
			{"_id": "1000", "name": "Alfonso", "age": 30},
			{"_id": "1001", "name": "Gerardo", "age": 25},
			{"_id": "1002", "name": "Alfonso", "age": 41},
		})

		a.Alternative("Find sorted with skip and limit", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:find").
				WithBodyJson(JSON{
					"sort":  JSON{"field": "age", "direction": -1},
					"skip":  1,
					"limit": 1,
				}).Do()
			Document(resp, "Find - sort skip limit", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(DecodeLines(resp.BodyString()), []JSON{
				{"_id": "1000", "name": "Alfonso", "age": 30},
			})
		})

		a.Alternative("Find with operators", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:find").
				WithBodyJson(JSON{
					"filter": JSON{
						"_id": JSON{"$nin": []string{"1000"}},
						"$or": []JSON{
							{"name": JSON{"$regex": "alf", "$options": "i"}},
							{"age": JSON{"$in": []int{25}}},
						},
					},
				}).Do()
			Document(resp, "Find - operators", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(DecodeLines(resp.BodyString()), []JSON{
				{"_id": "1001", "name": "Gerardo", "age": 25},
				{"_id": "1002", "name": "Alfonso", "age": 41},
			})
		})

		a.Alternative("Find with strict mode", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:find").
				WithBodyJson(JSON{
					"mode":   "strict",
					"filter": JSON{"name": JSON{"$in": []string{"Gerardo"}}},
				}).Do()
			Document(resp, "Find - strict", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(DecodeLines(resp.BodyString()), []JSON{
				{"_id": "1001", "name": "Gerardo", "age": 25},
			})
		})

		a.Alternative("Find with bad mode", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:find").
				WithBodyJson(JSON{"mode": "psychic"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Find one", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:findOne").
				WithBodyJson(JSON{"filter": JSON{"name": "Alfonso"}}).Do()
			Document(resp, "Find one", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"_id": "1000", "name": "Alfonso", "age": 30})
		})

		a.Alternative("Find one - not found", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:findOne").
				WithBodyJson(JSON{"filter": JSON{"name": "Nobody"}}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Update one", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:updateOne").
				WithBodyJson(JSON{
					"filter": JSON{"name": "Alfonso"},
					"update": JSON{
						"$set": JSON{"name": "Pedro"},
						"$inc": JSON{"age": 1},
					},
				}).Do()
			Document(resp, "Update one", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"matched": 1, "modified": 1})

			resp = apiRequest("POST", "/collections/people:find").Do()
			biff.AssertEqualJson(DecodeLines(resp.BodyString()), []JSON{
				{"_id": "1000", "name": "Pedro", "age": 31},
				{"_id": "1001", "name": "Gerardo", "age": 25},
				{"_id": "1002", "name": "Alfonso", "age": 41},
			})
		})

		a.Alternative("Update _id", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:updateOne").
				WithBodyJson(JSON{
					"filter": JSON{"_id": "1000"},
					"update": JSON{"$set": JSON{"_id": "other"}},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Delete one", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:deleteOne").
				WithBodyJson(JSON{"filter": JSON{"name": "Alfonso"}}).Do()
			Document(resp, "Delete one", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"deleted": 1})

			resp = apiRequest("POST", "/collections/people:size").Do()
			biff.AssertEqualJson(resp.BodyJson(), JSON{"total": 2, "next_id": 1003})
		})

		a.Alternative("Drop collection", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/people:dropCollection").Do()
			Document(resp, "Drop collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			resp = apiRequest("GET", "/collections/people").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)

			resp = apiRequest("POST", "/collections/people:dropCollection").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})
	})

	a.Alternative("Insert many", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/courses:insertMany").
			WithBodyJson(JSON{"documents": []JSON{
				{"_id": "course_go", "title": "Go"},
				{"title": "Rust"},
			}}).Do()
		Document(resp, "Insert many", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{"inserted_ids": []string{"course_go", "1000"}})
	})

	a.Alternative("Set defaults", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/users:setDefaults").
			WithBodyJson(JSON{"role": "student", "created": "unixnano()"}).Do()
		Document(resp, "Set defaults", `
			Defaults fill missing fields on insert. uuid(), unixnano() and
			auto() are generated per document.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), JSON{"role": "student", "created": "unixnano()"})

		resp = apiRequest("POST", "/collections/users:setDefaults").
			WithBodyJson(JSON{"created": nil}).Do()
		biff.AssertEqualJson(resp.BodyJson(), JSON{"role": "student"})

		resp = apiRequest("POST", "/collections/users:insert").
			WithBodyJson(JSON{"name": "Ada"}).Do()
		biff.AssertEqualJson(resp.BodyJson(), JSON{"_id": "1000", "name": "Ada", "role": "student"})
	})

	a.Alternative("Insert nothing", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/people:insert").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
	})

	a.Alternative("Insert malformed", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/people:insert").
			WithBodyString(`{"name": `).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})
}
