package session_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codemate/internal/session"
)

var _ = Describe("Draft persistence", func() {
	var (
		tempDir string
		path    string
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		path = filepath.Join(tempDir, "state", "draft.json")
	})

	It("returns nil for a missing file", func() {
		d, err := session.LoadDraft(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeNil())
	})

	It("discards a corrupt file", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("{not json"), 0o600)).To(Succeed())

		d, err := session.LoadDraft(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeNil())
	})

	It("round-trips a store draft", func() {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := session.NewStore(session.WithTimeFunc(func() time.Time { return now }))
		store.SetSource("int main(void) { return 0; }")
		store.SetStdin("42")

		Expect(session.SaveDraft(path, store.Draft())).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

		_, err = os.Stat(path + ".tmp")
		Expect(os.IsNotExist(err)).To(BeTrue())

		d, err := session.LoadDraft(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.SavedAt.Equal(now)).To(BeTrue())

		restored := session.NewStore()
		restored.Restore(*d)

		snap := restored.Snapshot()
		Expect(snap.Source).To(Equal("int main(void) { return 0; }"))
		Expect(snap.Stdin).To(Equal("42"))
		Expect(snap.Phase).To(Equal(session.PhaseIdle))
	})
})
