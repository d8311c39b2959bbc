package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Clark-Hu/ratings-dashboard/internal/domain"
)

var (
	// ErrMissingColumn indicates a header without a required column.
	ErrMissingColumn = errors.New("dataset: missing column")
	// ErrMalformedRow indicates a row with too few fields or an unparsable value.
	ErrMalformedRow = errors.New("dataset: malformed row")
	// ErrEmptyTable indicates a table without data rows.
	ErrEmptyTable = errors.New("dataset: empty table")
)

const utf8BOM = "\uFEFF"

// maxLineBytes bounds a single line of a delimiter-split file.
const maxLineBytes = 1 << 20

// recordReader yields raw field slices from a table file.
type recordReader interface {
	Read() ([]string, error)
	Line() int
}

type csvRecords struct {
	r *csv.Reader
}

func (c *csvRecords) Read() ([]string, error) { return c.r.Read() }

func (c *csvRecords) Line() int {
	line, _ := c.r.FieldPos(0)
	return line
}

type splitRecords struct {
	sc    *bufio.Scanner
	delim string
	line  int
}

func (s *splitRecords) Read() ([]string, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimRight(s.sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return strings.Split(text, s.delim), nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *splitRecords) Line() int { return s.line }

func newRecordReader(r io.Reader, f Format) recordReader {
	r = f.decode(r)
	if utf8.RuneCountInString(f.Delimiter) == 1 {
		cr := csv.NewReader(r)
		cr.Comma, _ = utf8.DecodeRuneInString(f.Delimiter)
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true
		return &csvRecords{r: cr}
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &splitRecords{sc: sc, delim: f.Delimiter}
}

// readTable streams the rows of one table, handing fn the fields projected to
// the schema's column order.
func readTable(r io.Reader, f Format, s schema, fn func(fields []string) error) error {
	rr := newRecordReader(r, f)

	positions := make([]int, len(s.columns))
	for i := range positions {
		positions[i] = i
	}

	if f.HasHeader {
		header, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", s.table, ErrEmptyTable)
		}
		if err != nil {
			return fmt.Errorf("%s: read header: %w", s.table, err)
		}
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], utf8BOM)
		}
		for i, col := range s.columns {
			positions[i] = -1
			for j, h := range header {
				if col.matches(h) {
					positions[i] = j
					break
				}
			}
			if positions[i] < 0 {
				return fmt.Errorf("%s: %w: %s", s.table, ErrMissingColumn, col.name)
			}
		}
	}

	width := 0
	for _, p := range positions {
		width = max(width, p+1)
	}

	projected := make([]string, len(s.columns))
	rows := 0
	for {
		rec, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s.table, err)
		}
		if len(rec) < width {
			return fmt.Errorf("%s line %d: %w: %d fields, want %d", s.table, rr.Line(), ErrMalformedRow, len(rec), width)
		}
		for i, p := range positions {
			projected[i] = rec[p]
		}
		if err := fn(projected); err != nil {
			return fmt.Errorf("%s line %d: %w", s.table, rr.Line(), err)
		}
		rows++
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", s.table, ErrEmptyTable)
	}
	return nil
}

func parseInt(column, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRow, column, raw)
	}
	return v, nil
}

// ReadRatings parses a ratings table.
func ReadRatings(r io.Reader, f Format) ([]domain.Rating, error) {
	var out []domain.Rating
	err := readTable(r, f, ratingsSchema, func(fields []string) error {
		userID, err := parseInt("user_id", fields[0])
		if err != nil {
			return err
		}
		movieID, err := parseInt("movie_id", fields[1])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: rating %q", ErrMalformedRow, fields[2])
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: timestamp %q", ErrMalformedRow, fields[3])
		}
		out = append(out, domain.Rating{UserID: userID, MovieID: movieID, Value: value, Timestamp: ts})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadMovies parses a movies table. Year and Genres are left for the pipeline
// to derive.
func ReadMovies(r io.Reader, f Format) ([]domain.Movie, error) {
	var out []domain.Movie
	err := readTable(r, f, moviesSchema, func(fields []string) error {
		id, err := parseInt("movie_id", fields[0])
		if err != nil {
			return err
		}
		out = append(out, domain.Movie{ID: id, Title: fields[1], RawGenres: fields[2]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadUsers parses a users table.
func ReadUsers(r io.Reader, f Format) ([]domain.User, error) {
	var out []domain.User
	err := readTable(r, f, usersSchema, func(fields []string) error {
		id, err := parseInt("user_id", fields[0])
		if err != nil {
			return err
		}
		age, err := parseInt("age", fields[2])
		if err != nil {
			return err
		}
		occupation, err := parseInt("occupation", fields[3])
		if err != nil {
			return err
		}
		out = append(out, domain.User{
			ID:         id,
			Gender:     strings.TrimSpace(fields[1]),
			Age:        age,
			Occupation: occupation,
			Zip:        strings.TrimSpace(fields[4]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
