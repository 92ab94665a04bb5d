package apicollectionv1

import (
	"github.com/fulldump/box"
)

func BuildV1Collection(v1 *box.R) *box.R {

	collections := v1.Resource("/collections").
		WithActions(
			box.Get(listCollections),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection),
			box.ActionPost(Stream(insert)).WithName("insert"),
			box.ActionPost(Stream(insertMany)).WithName("insertMany"),
			box.ActionPost(Stream(find)).WithName("find"),
			box.ActionPost(findOne),
			box.ActionPost(updateOne),
			box.ActionPost(deleteOne),
			box.ActionPost(setDefaults),
			box.ActionPost(dropCollection),
			box.ActionPost(size),
		)

	return collections
}
