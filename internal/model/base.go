package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ── 文档库集合名（由外部服务维护，沿用 mongoose 复数规则） ──

const (
	CollectionUsers           = "users"
	CollectionCourses         = "cours"
	CollectionClasses         = "classes"
	CollectionSessions        = "seances"
	CollectionSchedulePeriods = "emploidutemps"
	CollectionAttendances     = "presences"
	CollectionGrades          = "notes"
	CollectionExams           = "examens"
	CollectionAnnouncements   = "announcements"
	CollectionNotifications   = "notifications"
)

// ── 引用列表自定义类型 ──

// RefList 文档引用列表，实现 bson.ValueUnmarshaler。
// 历史数据中同一字段既可能是单个 ObjectId，也可能是 ObjectId 数组，两种形态统一解码为切片。
type RefList []primitive.ObjectID

// UnmarshalBSONValue 将单值 / 数组 / null 解析为 RefList。
func (r *RefList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*r = nil
		return nil
	case bsontype.ObjectID:
		id, ok := raw.ObjectIDOK()
		if !ok {
			return fmt.Errorf("RefList.UnmarshalBSONValue: invalid ObjectId")
		}
		*r = RefList{id}
		return nil
	case bsontype.Array:
		var ids []primitive.ObjectID
		if err := raw.Unmarshal(&ids); err != nil {
			return fmt.Errorf("RefList.UnmarshalBSONValue: %w", err)
		}
		*r = ids
		return nil
	default:
		return fmt.Errorf("RefList.UnmarshalBSONValue: unsupported type %s", t)
	}
}

// Contains 判断列表中是否包含指定 ID
func (r RefList) Contains(id primitive.ObjectID) bool {
	for _, v := range r {
		if v == id {
			return true
		}
	}
	return false
}
