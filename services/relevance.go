package services

import "strings"

// RelevancePolicy memutuskan apakah sebuah pertanyaan masih dalam domain
// layanan: paper/penelitian atau Universitas Negeri Semarang. Daftar kata
// kunci disuntikkan saat konstruksi supaya bisa diganti tanpa menyentuh logika.
type RelevancePolicy struct {
	PaperKeywords  []string
	CampusKeywords []string
}

// DefaultRelevancePolicy mengembalikan kebijakan dengan daftar kata kunci bawaan
func DefaultRelevancePolicy() RelevancePolicy {
	return RelevancePolicy{
		PaperKeywords: []string{
			"paper", "penelitian", "skripsi", "jurnal", "artikel", "study", "metode",
			"hasil", "kesimpulan", "abstrak", "literatur", "referensi", "analisis",
			"data", "sampel", "populasi", "hipotesis", "teori", "diskusi", "pembahasan",
		},
		CampusKeywords: []string{
			"unnes", "universitas negeri semarang", "semarang", "kampus", "fakultas",
			"jurusan", "program studi", "akademik", "mahasiswa", "dosen",
		},
	}
}

// IsRelevant bernilai true bila pertanyaan mengandung minimal satu kata kunci
// dari salah satu daftar. Fungsi murni: tanpa state, tanpa panggilan eksternal.
func (p RelevancePolicy) IsRelevant(question string) bool {
	q := strings.ToLower(question)

	for _, keyword := range p.PaperKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	for _, keyword := range p.CampusKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}
