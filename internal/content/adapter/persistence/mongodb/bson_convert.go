package mongodb

import (
	"time"

	"welfare-cms/internal/content/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toFields converts a decoded BSON document into plain Go values so that it
// serialises to the same JSON as documents from the other backends.
func toFields(doc bson.M) model.Fields {
	out := make(model.Fields, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = fromBSON(v)
	}
	return out
}

func fromBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = fromBSON(item)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = fromBSON(item)
		}
		return m
	case bson.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case bson.A:
		list := make([]interface{}, len(val))
		for i, item := range val {
			list[i] = fromBSON(item)
		}
		return list
	case []interface{}:
		list := make([]interface{}, len(val))
		for i, item := range val {
			list[i] = fromBSON(item)
		}
		return list
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Timestamp:
		return time.Unix(int64(val.T), 0).UTC()
	case int32:
		return int64(val)
	default:
		return v
	}
}
