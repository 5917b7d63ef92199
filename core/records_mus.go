package core

import (
	"errors"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// errMalformedLength is returned when an encoded slice length exceeds the
// remaining input.
var errMalformedLength = errors.New("malformed length")

// IDMUS is the MUS serializer for ID.
var IDMUS = idMUS{}

// ProductMUS is the MUS serializer for Product.
var ProductMUS = productMUS{}

// CategoryMUS is the MUS serializer for Category.
var CategoryMUS = categoryMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// Timestamps are stored as Unix microseconds.
type timeMUS struct{}

func (s timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (s timeMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

var timestampMUS = timeMUS{}

type idSliceMUS struct{}

func (s idSliceMUS) Marshal(v []ID, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(len(v)), bs)
	for _, id := range v {
		n += IDMUS.Marshal(id, bs[n:])
	}
	return
}

func (s idSliceMUS) Unmarshal(bs []byte) (v []ID, n int, err error) {
	length, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	// Every ID takes at least one byte.
	if length > uint64(len(bs)-n) {
		return nil, n, errMalformedLength
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]ID, length)
	var n1 int
	for i := range v {
		v[i], n1, err = IDMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s idSliceMUS) Size(v []ID) (size int) {
	size = varint.Uint64.Size(uint64(len(v)))
	for _, id := range v {
		size += IDMUS.Size(id)
	}
	return
}

var idsMUS = idSliceMUS{}

type productMUS struct{}

func (s productMUS) Marshal(v Product, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.DefaultCode, bs[n:])
	n += ord.String.Marshal(v.Barcode, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += idsMUS.Marshal(v.CategoryIds, bs[n:])
	n += ord.Bool.Marshal(v.Available, bs[n:])
	n += timestampMUS.Marshal(v.InsertedAt, bs[n:])
	return n + timestampMUS.Marshal(v.UpdatedAt, bs[n:])
}

func (s productMUS) Unmarshal(bs []byte) (v Product, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DefaultCode, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Barcode, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CategoryIds, n1, err = idsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Available, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timestampMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timestampMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s productMUS) Size(v Product) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.DefaultCode)
	size += ord.String.Size(v.Barcode)
	size += ord.String.Size(v.Description)
	size += idsMUS.Size(v.CategoryIds)
	size += ord.Bool.Size(v.Available)
	size += timestampMUS.Size(v.InsertedAt)
	return size + timestampMUS.Size(v.UpdatedAt)
}

type categoryMUS struct{}

func (s categoryMUS) Marshal(v Category, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += IDMUS.Marshal(v.ParentId, bs[n:])
	n += timestampMUS.Marshal(v.InsertedAt, bs[n:])
	return n + timestampMUS.Marshal(v.UpdatedAt, bs[n:])
}

func (s categoryMUS) Unmarshal(bs []byte) (v Category, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ParentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timestampMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timestampMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s categoryMUS) Size(v Category) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += IDMUS.Size(v.ParentId)
	size += timestampMUS.Size(v.InsertedAt)
	return size + timestampMUS.Size(v.UpdatedAt)
}
