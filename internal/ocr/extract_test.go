package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-doc-verifier/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.ExtractedData
	}{
		{
			name: "front side",
			text: "Asha Rao\nDOB: 14/02/1990\nFEMALE\n1234 5678 9012\nVID : 9123 4567 8912 3456\n",
			want: models.ExtractedData{
				DocumentNumber: "1234 5678 9012",
				VID:            "9123 4567 8912 3456",
				Name:           "Asha Rao",
				DateOfBirth:    "14/02/1990",
				Gender:         "FEMALE",
			},
		},
		{
			name: "upper case name before dob",
			text: "RAVI KUMAR\nDOB: 01/01/1980\nMale\n234567890123",
			want: models.ExtractedData{
				DocumentNumber: "234567890123",
				Name:           "Ravi Kumar",
				DateOfBirth:    "01/01/1980",
				Gender:         "MALE",
			},
		},
		{
			name: "hindi labels",
			text: "जन्म तिथि: 05/06/2001\nपुरुष\n3456 7890 1234",
			want: models.ExtractedData{
				DocumentNumber: "3456 7890 1234",
				DateOfBirth:    "05/06/2001",
				Gender:         "MALE",
			},
		},
		{
			name: "date without label",
			text: "issued 10/10/2010",
			want: models.ExtractedData{DateOfBirth: "10/10/2010"},
		},
		{
			name: "nothing",
			text: "lorem ipsum",
			want: models.ExtractedData{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Asha Rao", cleanName("  aSHA,   rao. "))
	assert.Equal(t, "", cleanName("..."))
}

func TestLongestNameLine(t *testing.T) {
	assert.Equal(t, "Asha Devi Rao", longestNameLine("Asha Rao\nAsha Devi Rao\nnot a name"))
	assert.Equal(t, "", longestNameLine("lower case only"))
}

func TestMerge(t *testing.T) {
	ocr := models.ExtractedData{DocumentNumber: "1234 5678 9012", Name: " "}
	manual := models.ExtractedData{DocumentNumber: "9999 9999 9999", Name: " Asha ", Gender: "FEMALE"}

	got := Merge(ocr, manual)
	assert.Equal(t, "1234 5678 9012", got.DocumentNumber, "recognized values win")
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "FEMALE", got.Gender)
	assert.Empty(t, got.DateOfBirth)
}
