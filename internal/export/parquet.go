package export

import (
	"bytes"
	"fmt"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"salesflow/internal/sales"
	"salesflow/logger"
)

// parquetRow is the columnar layout of one normalized line item.
type parquetRow struct {
	OrderNumber  string  `parquet:"name=order_number, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderDate    string  `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Month        string  `parquet:"name=month, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quarter      string  `parquet:"name=quarter, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year         string  `parquet:"name=year, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category     string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	ShowName     string  `parquet:"name=show_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductTitle string  `parquet:"name=product_title, type=BYTE_ARRAY, convertedtype=UTF8"`
	SKU          string  `parquet:"name=sku, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity     int32   `parquet:"name=quantity, type=INT32"`
	UnitPrice    float64 `parquet:"name=unit_price, type=DOUBLE"`
	LineTotal    float64 `parquet:"name=line_total, type=DOUBLE"`
	Currency     string  `parquet:"name=currency, type=BYTE_ARRAY, convertedtype=UTF8"`
	Country      string  `parquet:"name=country, type=BYTE_ARRAY, convertedtype=UTF8"`
	SalesChannel string  `parquet:"name=sales_channel, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// memoryFileWriter implements source.ParquetFile over a byte buffer so
// the file can be built in memory and handed to the uploader.
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{buffer: &bytes.Buffer{}}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) { return mfw, nil }
func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error)  { return mfw, nil }

func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	// Write-only usage; the writer never seeks backwards.
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error)  { return mfw.buffer.Read(b) }
func (mfw *memoryFileWriter) Write(b []byte) (int, error) { return mfw.buffer.Write(b) }
func (mfw *memoryFileWriter) Close() error                { return nil }
func (mfw *memoryFileWriter) Bytes() []byte               { return mfw.buffer.Bytes() }

// BuildParquet serializes the rows to an in-memory snappy-compressed
// parquet file.
func BuildParquet(rows []sales.Row) ([]byte, error) {
	log := logger.GetLogger().WithComponent("export").WithFields(logger.Fields{
		"rows":      len(rows),
		"operation": "build_parquet",
	})

	fw := newMemoryFileWriter()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		record := parquetRow{
			OrderNumber:  r.OrderNumber,
			OrderDate:    r.OrderDateFormatted,
			Month:        r.Month,
			Quarter:      r.Quarter,
			Year:         r.Year,
			Category:     r.Category,
			ShowName:     r.ShowName,
			ProductTitle: r.ProductTitle,
			SKU:          r.SKU,
			Quantity:     int32(r.Quantity),
			UnitPrice:    r.UnitPrice,
			LineTotal:    r.LineTotal,
			Currency:     r.Currency,
			Country:      r.Country,
			SalesChannel: r.SalesChannel,
		}
		if err := pw.Write(record); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}

	data := fw.Bytes()
	log.WithFields(logger.Fields{"file_size": len(data)}).Info("parquet file created")
	return data, nil
}
